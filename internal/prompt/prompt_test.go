package prompt

import (
	"errors"
	"testing"

	"github.com/amterp/tally/internal/model"
)

func TestValidateCount(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"0", false},
		{"42", false},
		{" 7 ", false},
		{"18446744073709551615", false},
		{"", true},
		{"abc", true},
		{"-1", true},
		{"1.5", true},
		{"18446744073709551616", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	opts := Options("a", "b")
	if len(opts) != 2 || opts[0] != (Option{Label: "a", Value: "a"}) || opts[1].Value != "b" {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestNoopPrompter(t *testing.T) {
	var p Prompter = &NoopPrompter{}

	if _, err := p.Select("t", Options("a")); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("Select error = %v", err)
	}
	if _, err := p.Input("t", ""); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("Input error = %v", err)
	}
	if _, err := p.Count("t", 0); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("Count error = %v", err)
	}
	if c, err := p.Color("t", model.ColorRed); !errors.Is(err, ErrNonInteractive) || c != model.ColorRed {
		t.Errorf("Color = %v, %v", c, err)
	}
	if _, err := p.Confirm("t", true); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("Confirm error = %v", err)
	}
	if _, err := p.MultiSelect("t", Options("a"), nil); !errors.Is(err, ErrNonInteractive) {
		t.Errorf("MultiSelect error = %v", err)
	}
}
