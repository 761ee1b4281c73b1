package store

import "github.com/amterp/tally/internal/model"

// CounterStore holds the ordered counter collection.
//
// Every id-targeted method returns a NotFoundError (and changes nothing) when no
// counter has the id. Bound guards on Increment/Decrement are not errors.
type CounterStore interface {
	Add(counter model.Counter) model.Counter
	Get(id string) (model.Counter, error)
	List() []model.Counter
	Len() int

	Increment(id string) error
	Decrement(id string) error
	SetTitle(id, title string) error
	SetValue(id string, value uint64) error
	SetColor(id string, color model.Color) error
	Delete(id string) error

	MoveUp(id string) error
	MoveDown(id string) error
	MoveTop(id string) error
	MoveBottom(id string) error
	Reorder(counters []model.Counter)
}
