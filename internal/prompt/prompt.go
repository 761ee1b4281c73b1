package prompt

import (
	"errors"

	"github.com/amterp/tally/internal/model"
)

// ErrNonInteractive is returned when prompting in non-interactive mode.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// Option is one choice in a select prompt.
type Option struct {
	Label string
	Value string
}

// Options builds options whose label and value are the same.
func Options(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Label: v, Value: v}
	}
	return opts
}

// Prompter defines the interface for interactive user prompts.
type Prompter interface {
	// Select presents options and returns the selected value.
	Select(title string, options []Option) (string, error)

	// Input prompts for text input.
	Input(title string, defaultValue string) (string, error)

	// Count prompts for a counter value. Non-numeric input is rejected in the
	// prompt and never returned.
	Count(title string, current uint64) (uint64, error)

	// Color prompts for one of the fixed counter colors.
	Color(title string, current model.Color) (model.Color, error)

	// Confirm prompts for yes/no.
	Confirm(title string, defaultValue bool) (bool, error)

	// MultiSelect allows selecting multiple options. selected are preselected.
	MultiSelect(title string, options []Option, selected []string) ([]string, error)
}

// NoopPrompter returns errors for all prompts (non-interactive mode).
type NoopPrompter struct{}

func (p *NoopPrompter) Select(title string, options []Option) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Input(title string, defaultValue string) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Count(title string, current uint64) (uint64, error) {
	return 0, ErrNonInteractive
}

func (p *NoopPrompter) Color(title string, current model.Color) (model.Color, error) {
	return current, ErrNonInteractive
}

func (p *NoopPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	return false, ErrNonInteractive
}

func (p *NoopPrompter) MultiSelect(title string, options []Option, selected []string) ([]string, error) {
	return nil, ErrNonInteractive
}
