package prompt

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/amterp/tally/internal/model"
)

// HuhPrompter implements Prompter using the charmbracelet/huh library.
type HuhPrompter struct{}

// NewHuhPrompter creates a new huh-based prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

func huhOptions(options []Option) []huh.Option[string] {
	opts := make([]huh.Option[string], len(options))
	for i, opt := range options {
		opts[i] = huh.NewOption(opt.Label, opt.Value)
	}
	return opts
}

func (p *HuhPrompter) Select(title string, options []Option) (string, error) {
	var result string

	err := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions(options)...).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) Input(title string, defaultValue string) (string, error) {
	result := defaultValue

	err := huh.NewInput().
		Title(title).
		Value(&result).
		Run()

	return result, err
}

// ValidateCount is the huh validator for counter values.
func ValidateCount(text string) error {
	_, err := model.ParseCount(text)
	return err
}

func (p *HuhPrompter) Count(title string, current uint64) (uint64, error) {
	text := strconv.FormatUint(current, 10)

	err := huh.NewInput().
		Title(title).
		Value(&text).
		Validate(ValidateCount).
		Run()
	if err != nil {
		return current, err
	}

	return model.ParseCount(text)
}

func (p *HuhPrompter) Color(title string, current model.Color) (model.Color, error) {
	result := current

	opts := make([]huh.Option[model.Color], 0, len(model.AllColors()))
	for _, c := range model.AllColors() {
		opts = append(opts, huh.NewOption(c.String(), c).Selected(c == current))
	}

	err := huh.NewSelect[model.Color]().
		Title(title).
		Options(opts...).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	result := defaultValue

	err := huh.NewConfirm().
		Title(title).
		Value(&result).
		Run()

	return result, err
}

func (p *HuhPrompter) MultiSelect(title string, options []Option, selected []string) ([]string, error) {
	result := slices.Clone(selected)

	opts := huhOptions(options)
	for i, opt := range options {
		opts[i] = opts[i].Selected(slices.Contains(selected, opt.Value))
	}

	err := huh.NewMultiSelect[string]().
		Title(title).
		Options(opts...).
		Value(&result).
		Run()

	return result, err
}
