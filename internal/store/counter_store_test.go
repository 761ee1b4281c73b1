package store

import (
	"sort"
	"testing"

	talerr "github.com/amterp/tally/internal/errors"
	"github.com/amterp/tally/internal/id"
	"github.com/amterp/tally/internal/model"
)

func setupTestStore(t *testing.T, titles ...string) (*MemoryCounterStore, []string) {
	t.Helper()

	s := NewCounterStoreWithIDs(id.Sequence("c"))
	ids := make([]string, len(titles))
	for i, title := range titles {
		ids[i] = s.Add(model.NewCounter(title)).ID
	}
	return s, ids
}

func titles(s *MemoryCounterStore) []string {
	var out []string
	for _, c := range s.List() {
		out = append(out, c.Title)
	}
	return out
}

func assertOrder(t *testing.T, s *MemoryCounterStore, want ...string) {
	t.Helper()
	got := titles(s)
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMemoryCounterStore_AddAssignsFreshIDs(t *testing.T) {
	s := NewCounterStore()

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		c := s.Add(model.Counter{ID: "caller-supplied", Title: "x"})
		if c.ID == "" || c.ID == "caller-supplied" {
			t.Fatalf("expected generated id, got %q", c.ID)
		}
		if seen[c.ID] {
			t.Fatalf("duplicate id %q after %d adds", c.ID, i)
		}
		seen[c.ID] = true
	}
	if s.Len() != 500 {
		t.Errorf("Len() = %d, want 500", s.Len())
	}
}

func TestMemoryCounterStore_AddAppendsWithDefaults(t *testing.T) {
	s, ids := setupTestStore(t, "", "Second")

	assertOrder(t, s, model.DefaultTitle, "Second")

	first, err := s.Get(ids[0])
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if first.Count != 0 || first.Color != model.ColorSystem {
		t.Errorf("unexpected defaults: %+v", first)
	}
}

func TestMemoryCounterStore_IDsNeverReused(t *testing.T) {
	// A source that keeps repeating itself must not produce a reused id.
	calls := 0
	source := func() string {
		calls++
		if calls <= 3 {
			return "dup"
		}
		return id.Generate()
	}
	s := NewCounterStoreWithIDs(source)

	first := s.Add(model.NewCounter("a"))
	if err := s.Delete(first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	second := s.Add(model.NewCounter("b"))
	if second.ID == first.ID {
		t.Errorf("id %q was reused after delete", first.ID)
	}
}

func TestMemoryCounterStore_IncrementDecrement(t *testing.T) {
	s, ids := setupTestStore(t, "A")

	for i := 0; i < 3; i++ {
		if err := s.Increment(ids[0]); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if err := s.Decrement(ids[0]); err != nil {
		t.Fatalf("Decrement failed: %v", err)
	}

	c, _ := s.Get(ids[0])
	if c.Count != 2 {
		t.Errorf("Count = %d, want 2", c.Count)
	}
}

func TestMemoryCounterStore_DecrementAtZeroIsNoop(t *testing.T) {
	s, ids := setupTestStore(t, "A")

	if err := s.Decrement(ids[0]); err != nil {
		t.Fatalf("Decrement at zero should not error: %v", err)
	}
	c, _ := s.Get(ids[0])
	if c.Count != 0 {
		t.Errorf("Count = %d, want 0", c.Count)
	}
}

func TestMemoryCounterStore_IncrementAtMaxIsNoop(t *testing.T) {
	s, ids := setupTestStore(t, "A")
	if err := s.SetValue(ids[0], model.MaxCount); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	if err := s.Increment(ids[0]); err != nil {
		t.Fatalf("Increment at max should not error: %v", err)
	}
	c, _ := s.Get(ids[0])
	if c.Count != model.MaxCount {
		t.Errorf("Count = %d, want max", c.Count)
	}

	// Decrement then increment round-trips below the bound.
	s.Decrement(ids[0])
	s.Increment(ids[0])
	c, _ = s.Get(ids[0])
	if c.Count != model.MaxCount {
		t.Errorf("Count = %d, want max", c.Count)
	}
}

func TestMemoryCounterStore_FieldSetters(t *testing.T) {
	s, ids := setupTestStore(t, "A", "B")

	if err := s.SetTitle(ids[0], "  Push-ups  "); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	if err := s.SetValue(ids[0], 99); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := s.SetColor(ids[0], model.ColorGreen); err != nil {
		t.Fatalf("SetColor failed: %v", err)
	}

	c, _ := s.Get(ids[0])
	if c.Title != "  Push-ups  " {
		t.Errorf("Title = %q, want verbatim", c.Title)
	}
	if c.Count != 99 {
		t.Errorf("Count = %d, want 99", c.Count)
	}
	if c.Color != model.ColorGreen {
		t.Errorf("Color = %v, want green", c.Color)
	}

	other, _ := s.Get(ids[1])
	if other.Title != "B" || other.Count != 0 || other.Color != model.ColorSystem {
		t.Errorf("other counter changed: %+v", other)
	}
}

func TestMemoryCounterStore_Delete(t *testing.T) {
	s, ids := setupTestStore(t, "A", "B", "C")

	if err := s.Delete(ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	assertOrder(t, s, "A", "C")

	if _, err := s.Get(ids[1]); !talerr.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestMemoryCounterStore_UnknownIDLeavesStateUnchanged(t *testing.T) {
	s, _ := setupTestStore(t, "A", "B")
	before := s.List()

	ops := map[string]func() error{
		"Increment":  func() error { return s.Increment("missing") },
		"Decrement":  func() error { return s.Decrement("missing") },
		"SetTitle":   func() error { return s.SetTitle("missing", "x") },
		"SetValue":   func() error { return s.SetValue("missing", 5) },
		"SetColor":   func() error { return s.SetColor("missing", model.ColorRed) },
		"Delete":     func() error { return s.Delete("missing") },
		"MoveUp":     func() error { return s.MoveUp("missing") },
		"MoveDown":   func() error { return s.MoveDown("missing") },
		"MoveTop":    func() error { return s.MoveTop("missing") },
		"MoveBottom": func() error { return s.MoveBottom("missing") },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			if !talerr.IsNotFound(err) {
				t.Errorf("expected not found error, got %v", err)
			}
			after := s.List()
			for i := range before {
				if before[i] != after[i] {
					t.Fatalf("state changed: %v -> %v", before, after)
				}
			}
		})
	}
}

func TestMemoryCounterStore_MoveUpDown(t *testing.T) {
	s, ids := setupTestStore(t, "A", "B", "C")

	s.MoveUp(ids[2])
	assertOrder(t, s, "A", "C", "B")

	s.MoveUp(ids[0]) // already first
	assertOrder(t, s, "A", "C", "B")

	s.MoveDown(ids[0])
	assertOrder(t, s, "C", "A", "B")

	s.MoveDown(ids[1]) // already last
	assertOrder(t, s, "C", "A", "B")
}

func TestMemoryCounterStore_MoveTopBottom(t *testing.T) {
	s, ids := setupTestStore(t, "A", "B", "C", "D")

	s.MoveTop(ids[2])
	assertOrder(t, s, "C", "A", "B", "D")

	s.MoveTop(ids[2]) // idempotent
	assertOrder(t, s, "C", "A", "B", "D")

	s.MoveBottom(ids[0])
	assertOrder(t, s, "C", "B", "D", "A")

	s.MoveBottom(ids[0])
	assertOrder(t, s, "C", "B", "D", "A")
}

func TestMemoryCounterStore_MoveSingleElement(t *testing.T) {
	s, ids := setupTestStore(t, "Only")

	for _, move := range []func(string) error{s.MoveUp, s.MoveDown, s.MoveTop, s.MoveBottom} {
		if err := move(ids[0]); err != nil {
			t.Fatalf("move failed: %v", err)
		}
		assertOrder(t, s, "Only")
	}
}

func TestMemoryCounterStore_ReorderIsPermutation(t *testing.T) {
	s, ids := setupTestStore(t, "A", "B", "C")

	current := s.List()
	reversed := []model.Counter{current[2], current[1], current[0]}
	s.Reorder(reversed)
	assertOrder(t, s, "C", "B", "A")

	// Mutating the caller's slice must not affect the store.
	reversed[0].Title = "mutated"
	assertOrder(t, s, "C", "B", "A")

	var got []string
	for _, c := range s.List() {
		got = append(got, c.ID)
	}
	sort.Strings(got)
	want := append([]string(nil), ids...)
	sort.Strings(want)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("id set changed: %v -> %v", want, got)
		}
	}
}

func TestMemoryCounterStore_ListReturnsCopy(t *testing.T) {
	s, ids := setupTestStore(t, "A")

	list := s.List()
	list[0].Count = 100

	c, _ := s.Get(ids[0])
	if c.Count != 0 {
		t.Errorf("store mutated through List() copy: %d", c.Count)
	}
}
