package service

import (
	"fmt"

	talerr "github.com/amterp/tally/internal/errors"
	"github.com/amterp/tally/internal/model"
)

// EventKind names an inbound UI event.
type EventKind string

const (
	EventAdd               EventKind = "add"
	EventIncrement         EventKind = "increment"
	EventDecrement         EventKind = "decrement"
	EventDelete            EventKind = "delete"
	EventMoveUp            EventKind = "move-up"
	EventMoveDown          EventKind = "move-down"
	EventMoveTop           EventKind = "move-top"
	EventMoveBottom        EventKind = "move-bottom"
	EventSetColor          EventKind = "set-color"
	EventSetTitle          EventKind = "set-title"
	EventSetValue          EventKind = "set-value"
	EventReorder           EventKind = "reorder"
	EventToggleFilterColor EventKind = "toggle-filter-color"
	EventSetFilterText     EventKind = "set-filter-text"
	EventToggleFilterPanel EventKind = "toggle-filter-panel"
)

// Event is one inbound UI event. Only the fields relevant to Kind are read.
// Value is a decimal string on the wire, like Counter.Count. Color is
// required for set-color and toggle-filter-color and optional for add.
type Event struct {
	Kind  EventKind    `json:"kind"`
	ID    string       `json:"id,omitempty"`
	Title string       `json:"title,omitempty"`
	Text  string       `json:"text,omitempty"`
	Value uint64       `json:"value,string,omitempty"`
	Color *model.Color `json:"color,omitempty"`
	IDs   []string     `json:"ids,omitempty"`
}

// UnknownEventError indicates an event kind the session does not handle.
type UnknownEventError struct {
	Kind EventKind
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event kind %q", e.Kind)
}

var errColorRequired = talerr.InvalidField("color", "required")

// Apply dispatches ev to the matching session operation.
func (s *Session) Apply(ev Event) error {
	switch ev.Kind {
	case EventAdd:
		color := model.ColorSystem
		if ev.Color != nil {
			color = *ev.Color
		}
		s.Add(ev.Title, color)
		return nil
	case EventIncrement:
		return s.Increment(ev.ID)
	case EventDecrement:
		return s.Decrement(ev.ID)
	case EventDelete:
		return s.Delete(ev.ID)
	case EventMoveUp:
		return s.MoveUp(ev.ID)
	case EventMoveDown:
		return s.MoveDown(ev.ID)
	case EventMoveTop:
		return s.MoveTop(ev.ID)
	case EventMoveBottom:
		return s.MoveBottom(ev.ID)
	case EventSetColor:
		if ev.Color == nil {
			return errColorRequired
		}
		return s.SetColor(ev.ID, *ev.Color)
	case EventSetTitle:
		return s.SetTitle(ev.ID, ev.Title)
	case EventSetValue:
		return s.SetValue(ev.ID, ev.Value)
	case EventReorder:
		return s.ReorderIDs(ev.IDs)
	case EventToggleFilterColor:
		if ev.Color == nil {
			return errColorRequired
		}
		s.ToggleFilterColor(*ev.Color)
		return nil
	case EventSetFilterText:
		s.SetFilterText(ev.Text)
		return nil
	case EventToggleFilterPanel:
		s.ToggleFilterPanel()
		return nil
	}
	return &UnknownEventError{Kind: ev.Kind}
}
