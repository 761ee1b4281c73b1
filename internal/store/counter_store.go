package store

import (
	talerr "github.com/amterp/tally/internal/errors"
	"github.com/amterp/tally/internal/id"
	"github.com/amterp/tally/internal/model"
)

// MemoryCounterStore implements CounterStore with an in-memory slice.
// It is not safe for concurrent use; the owning session serializes access.
type MemoryCounterStore struct {
	counters []model.Counter
	issued   map[string]struct{} // every id ever handed out, so ids are never reused
	newID    func() string
}

// NewCounterStore creates an empty store using flexid-generated ids.
func NewCounterStore() *MemoryCounterStore {
	return NewCounterStoreWithIDs(id.Generate)
}

// NewCounterStoreWithIDs creates an empty store with a custom id source.
func NewCounterStoreWithIDs(newID func() string) *MemoryCounterStore {
	return &MemoryCounterStore{
		issued: make(map[string]struct{}),
		newID:  newID,
	}
}

// Add appends counter with a freshly generated id and returns the stored copy.
// Any id already set on counter is ignored.
func (s *MemoryCounterStore) Add(counter model.Counter) model.Counter {
	counter.ID = s.freshID()
	s.counters = append(s.counters, counter)
	return counter
}

func (s *MemoryCounterStore) freshID() string {
	for {
		candidate := s.newID()
		if _, taken := s.issued[candidate]; candidate == "" || taken {
			continue
		}
		s.issued[candidate] = struct{}{}
		return candidate
	}
}

// Get returns a copy of the counter with the given id.
func (s *MemoryCounterStore) Get(id string) (model.Counter, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Counter{}, talerr.CounterNotFound(id)
	}
	return s.counters[idx], nil
}

// List returns a copy of the collection in display order.
func (s *MemoryCounterStore) List() []model.Counter {
	out := make([]model.Counter, len(s.counters))
	copy(out, s.counters)
	return out
}

// Len returns the number of counters.
func (s *MemoryCounterStore) Len() int {
	return len(s.counters)
}

// Increment adds one unless the count is already at model.MaxCount.
func (s *MemoryCounterStore) Increment(id string) error {
	return s.update(id, func(c *model.Counter) {
		if c.CanIncrement() {
			c.Count++
		}
	})
}

// Decrement subtracts one unless the count is already zero.
func (s *MemoryCounterStore) Decrement(id string) error {
	return s.update(id, func(c *model.Counter) {
		if c.CanDecrement() {
			c.Count--
		}
	})
}

// SetTitle replaces the title verbatim.
func (s *MemoryCounterStore) SetTitle(id, title string) error {
	return s.update(id, func(c *model.Counter) {
		c.Title = title
	})
}

// SetValue replaces the count.
func (s *MemoryCounterStore) SetValue(id string, value uint64) error {
	return s.update(id, func(c *model.Counter) {
		c.Count = value
	})
}

// SetColor replaces the color tag.
func (s *MemoryCounterStore) SetColor(id string, color model.Color) error {
	return s.update(id, func(c *model.Counter) {
		c.Color = color
	})
}

// Delete removes the counter. Its id stays retired.
func (s *MemoryCounterStore) Delete(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return talerr.CounterNotFound(id)
	}
	s.counters = append(s.counters[:idx], s.counters[idx+1:]...)
	return nil
}

// MoveUp swaps the counter with its predecessor. No-op when already first.
func (s *MemoryCounterStore) MoveUp(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return talerr.CounterNotFound(id)
	}
	if idx > 0 {
		s.counters[idx], s.counters[idx-1] = s.counters[idx-1], s.counters[idx]
	}
	return nil
}

// MoveDown swaps the counter with its successor. No-op when already last.
func (s *MemoryCounterStore) MoveDown(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return talerr.CounterNotFound(id)
	}
	if idx < len(s.counters)-1 {
		s.counters[idx], s.counters[idx+1] = s.counters[idx+1], s.counters[idx]
	}
	return nil
}

// MoveTop moves the counter to index 0.
func (s *MemoryCounterStore) MoveTop(id string) error {
	return s.moveTo(id, 0)
}

// MoveBottom moves the counter to the end.
func (s *MemoryCounterStore) MoveBottom(id string) error {
	return s.moveTo(id, -1)
}

// Reorder replaces the collection with counters as given.
// Callers are responsible for passing a permutation of the current set.
func (s *MemoryCounterStore) Reorder(counters []model.Counter) {
	next := make([]model.Counter, len(counters))
	copy(next, counters)
	s.counters = next
	for _, c := range next {
		s.issued[c.ID] = struct{}{}
	}
}

// moveTo removes the counter and reinserts it at position.
// If position is -1 or out of bounds, appends to end.
func (s *MemoryCounterStore) moveTo(id string, position int) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return talerr.CounterNotFound(id)
	}

	counter := s.counters[idx]
	rest := append(s.counters[:idx:idx], s.counters[idx+1:]...)

	if position < 0 || position >= len(rest) {
		s.counters = append(rest, counter)
		return nil
	}

	next := make([]model.Counter, 0, len(rest)+1)
	next = append(next, rest[:position]...)
	next = append(next, counter)
	next = append(next, rest[position:]...)
	s.counters = next
	return nil
}

func (s *MemoryCounterStore) update(id string, fn func(*model.Counter)) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return talerr.CounterNotFound(id)
	}
	fn(&s.counters[idx])
	return nil
}

func (s *MemoryCounterStore) indexOf(id string) int {
	for i := range s.counters {
		if s.counters[i].ID == id {
			return i
		}
	}
	return -1
}
