package service

import (
	"fmt"

	talerr "github.com/amterp/tally/internal/errors"
	"github.com/amterp/tally/internal/filter"
	"github.com/amterp/tally/internal/model"
	"github.com/amterp/tally/internal/store"
)

// Session owns the counter collection, the filter state and the filter panel
// flag for one running front-end.
//
// A Session is not safe for concurrent use. Front-ends must route every event
// through a single goroutine or hold a lock around calls.
type Session struct {
	store         store.CounterStore
	filter        *filter.State
	filterVisible bool
	defaultTitle  string
}

// Options configures a new Session.
type Options struct {
	DefaultTitle string
	MatchMode    filter.MatchMode
}

// NewSession creates a session backed by the given store.
func NewSession(counterStore store.CounterStore, opts Options) *Session {
	title := opts.DefaultTitle
	if title == "" {
		title = model.DefaultTitle
	}
	return &Session{
		store:        counterStore,
		filter:       filter.NewState(opts.MatchMode),
		defaultTitle: title,
	}
}

// Snapshot is the outbound state a front-end renders after each event.
type Snapshot struct {
	Counters      []model.Counter      `json:"counters"`
	Visible       []model.Counter      `json:"visible"`
	FilterVisible bool                 `json:"filter_visible"`
	FilterColors  map[model.Color]bool `json:"filter_colors"`
	FilterText    string               `json:"filter_text"`
	MatchMode     filter.MatchMode     `json:"match_mode"`
	DefaultTitle  string               `json:"default_title"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	counters := s.store.List()
	return Snapshot{
		Counters:      counters,
		Visible:       s.visibleFrom(counters),
		FilterVisible: s.filterVisible,
		FilterColors:  s.filter.Colors(),
		FilterText:    s.filter.Text(),
		MatchMode:     s.filter.Mode(),
		DefaultTitle:  s.defaultTitle,
	}
}

// Counters returns the full collection in display order.
func (s *Session) Counters() []model.Counter {
	return s.store.List()
}

// Len returns the number of counters.
func (s *Session) Len() int {
	return s.store.Len()
}

// Visible returns the filtered view while the filter panel is shown and the
// full collection otherwise.
func (s *Session) Visible() []model.Counter {
	return s.visibleFrom(s.store.List())
}

func (s *Session) visibleFrom(counters []model.Counter) []model.Counter {
	if !s.filterVisible {
		return counters
	}
	return filter.Compute(counters, s.filter)
}

// Get returns the counter with the given id.
func (s *Session) Get(id string) (model.Counter, error) {
	return s.store.Get(id)
}

// DefaultTitle returns the title given to new counters.
func (s *Session) DefaultTitle() string {
	return s.defaultTitle
}

// SetDefaultTitle changes the title given to counters added from now on.
// An empty title restores model.DefaultTitle.
func (s *Session) SetDefaultTitle(title string) {
	if title == "" {
		title = model.DefaultTitle
	}
	s.defaultTitle = title
}

// Add appends a new counter. An empty title uses the session default.
func (s *Session) Add(title string, color model.Color) model.Counter {
	if title == "" {
		title = s.defaultTitle
	}
	counter := model.NewCounter(title)
	counter.Color = color
	return s.store.Add(counter)
}

func (s *Session) Increment(id string) error { return s.store.Increment(id) }

func (s *Session) Decrement(id string) error { return s.store.Decrement(id) }

func (s *Session) SetTitle(id, title string) error { return s.store.SetTitle(id, title) }

func (s *Session) SetValue(id string, value uint64) error { return s.store.SetValue(id, value) }

// SetColor rejects values outside the fixed color set.
func (s *Session) SetColor(id string, color model.Color) error {
	if !color.Valid() {
		return talerr.InvalidColor(color.String())
	}
	return s.store.SetColor(id, color)
}

func (s *Session) Delete(id string) error { return s.store.Delete(id) }

func (s *Session) MoveUp(id string) error { return s.store.MoveUp(id) }

func (s *Session) MoveDown(id string) error { return s.store.MoveDown(id) }

func (s *Session) MoveTop(id string) error { return s.store.MoveTop(id) }

func (s *Session) MoveBottom(id string) error { return s.store.MoveBottom(id) }

// Reorder replaces the collection with counters as given, unvalidated.
func (s *Session) Reorder(counters []model.Counter) {
	s.store.Reorder(counters)
}

// ReorderIDs reorders the collection to match ids, which must name every
// current counter exactly once.
func (s *Session) ReorderIDs(ids []string) error {
	current := s.store.List()
	if len(ids) != len(current) {
		return talerr.InvalidField("order", fmt.Sprintf("expected %d ids, got %d", len(current), len(ids)))
	}

	byID := make(map[string]model.Counter, len(current))
	for _, c := range current {
		byID[c.ID] = c
	}

	next := make([]model.Counter, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return talerr.InvalidField("order", fmt.Sprintf("unknown or repeated id %q", id))
		}
		delete(byID, id)
		next = append(next, c)
	}

	s.store.Reorder(next)
	return nil
}

// ToggleFilterColor flips the selection of color in the filter state.
func (s *Session) ToggleFilterColor(color model.Color) {
	s.filter.ToggleColor(color)
}

// SetFilterText replaces the text filter.
func (s *Session) SetFilterText(text string) {
	s.filter.SetText(text)
}

// SetMatchMode changes how the text filter compares titles.
func (s *Session) SetMatchMode(mode filter.MatchMode) {
	s.filter.SetMode(mode)
}

// IsFilterColorSelected reports whether color is selected in the filter.
func (s *Session) IsFilterColorSelected(color model.Color) bool {
	return s.filter.IsSelected(color)
}

// FilterText returns the current text filter.
func (s *Session) FilterText() string {
	return s.filter.Text()
}

// ToggleFilterPanel shows or hides the filter panel. Hiding it keeps the
// filter criteria so reopening restores the same view.
func (s *Session) ToggleFilterPanel() {
	s.filterVisible = !s.filterVisible
}

// FilterVisible reports whether the filtered view is active.
func (s *Session) FilterVisible() bool {
	return s.filterVisible
}
