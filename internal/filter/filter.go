// Package filter derives the visible subset of counters from a set of
// selected colors and a title substring.
package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/amterp/tally/internal/model"
)

// MatchMode selects how the text filter is compared with titles.
type MatchMode string

const (
	// MatchExact is a case-sensitive substring match.
	MatchExact MatchMode = "exact"
	// MatchFold ignores case and diacritics.
	MatchFold MatchMode = "fold"
)

// ParseMatchMode returns the mode for name, defaulting to MatchExact for "".
func ParseMatchMode(name string) (MatchMode, bool) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(name))) {
	case "", MatchExact:
		return MatchExact, true
	case MatchFold:
		return MatchFold, true
	}
	return MatchExact, false
}

// State is the transient filter criteria. The zero value has no colors
// selected and an empty text filter.
type State struct {
	colors map[model.Color]bool
	text   string
	mode   MatchMode
}

// NewState returns an empty filter state using the given match mode.
func NewState(mode MatchMode) *State {
	s := &State{mode: mode}
	s.Clear()
	return s
}

// ToggleColor flips the selected flag for color.
func (s *State) ToggleColor(color model.Color) {
	if s.colors == nil {
		s.Clear()
	}
	s.colors[color] = !s.colors[color]
}

// IsSelected reports whether color is selected.
func (s *State) IsSelected(color model.Color) bool {
	return s.colors[color]
}

// SelectedColors returns the selected colors in display order.
func (s *State) SelectedColors() []model.Color {
	var out []model.Color
	for _, c := range model.AllColors() {
		if s.colors[c] {
			out = append(out, c)
		}
	}
	return out
}

// Colors returns a copy of the flag for every color.
func (s *State) Colors() map[model.Color]bool {
	out := make(map[model.Color]bool, len(s.colors))
	for _, c := range model.AllColors() {
		out[c] = s.colors[c]
	}
	return out
}

// SetText replaces the text filter verbatim.
func (s *State) SetText(text string) {
	s.text = text
}

// Text returns the current text filter.
func (s *State) Text() string {
	return s.text
}

// Mode returns the match mode.
func (s *State) Mode() MatchMode {
	if s.mode == "" {
		return MatchExact
	}
	return s.mode
}

// SetMode changes how text is matched.
func (s *State) SetMode(mode MatchMode) {
	s.mode = mode
}

// Clear deselects every color and empties the text filter.
func (s *State) Clear() {
	s.colors = make(map[model.Color]bool, len(model.AllColors()))
	for _, c := range model.AllColors() {
		s.colors[c] = false
	}
	s.text = ""
}

// Matches reports whether counter passes the filter: its color is selected,
// or the text filter is non-empty and contained in its title.
func (s *State) Matches(counter model.Counter) bool {
	if s.colors[counter.Color] {
		return true
	}
	if s.text == "" {
		return false
	}
	if s.Mode() == MatchFold {
		return strings.Contains(fold(counter.Title), fold(s.text))
	}
	return strings.Contains(counter.Title, s.text)
}

// Compute returns the counters that pass the filter, in collection order.
// With no colors selected and an empty text filter the result is empty.
func Compute(counters []model.Counter, s *State) []model.Counter {
	out := make([]model.Counter, 0, len(counters))
	for _, c := range counters {
		if s.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// fold strips diacritics and case-folds s.
func fold(s string) string {
	decomposed := norm.NFD.String(s)

	var b strings.Builder
	for _, r := range decomposed {
		if !unicode.Is(unicode.Mn, r) { // Mn = Mark, Nonspacing
			b.WriteRune(r)
		}
	}
	return cases.Fold().String(b.String())
}
