package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/tally/internal/id"
	"github.com/amterp/tally/internal/model"
	"github.com/amterp/tally/internal/service"
	"github.com/amterp/tally/internal/store"
)

// TestCounter returns a counter with sensible test defaults.
func TestCounter(id, title string) model.Counter {
	return model.Counter{
		ID:    id,
		Title: title,
		Color: model.ColorSystem,
	}
}

// NewSession returns an empty session whose counters get ids c1, c2, ...
func NewSession(t *testing.T) *service.Session {
	t.Helper()
	return service.NewSession(store.NewCounterStoreWithIDs(id.Sequence("c")), service.Options{})
}

// Seed adds one counter per title and returns them in order.
func Seed(session *service.Session, titles ...string) []model.Counter {
	out := make([]model.Counter, len(titles))
	for i, title := range titles {
		out[i] = session.Add(title, model.ColorSystem)
	}
	return out
}

// WriteConfig writes content to config.toml in a temp dir and returns its path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}
