package api

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"

	"github.com/amterp/tally/internal/config"
	"github.com/amterp/tally/testutil"
)

// mockSubscriber implements ConfigSubscriber for testing
type mockSubscriber struct {
	changes []*config.Config
}

func (m *mockSubscriber) OnConfigChange(cfg *config.Config) {
	m.changes = append(m.changes, cfg)
}

func TestConfigWatcher_IsConfigEvent(t *testing.T) {
	path := filepath.Join("/home", "user", ".config", "tally", "config.toml")
	cw := &ConfigWatcher{path: path}

	tests := []struct {
		name string
		file string
		op   fsnotify.Op
		want bool
	}{
		{"write", path, fsnotify.Write, true},
		{"create", path, fsnotify.Create, true},
		{"rename", path, fsnotify.Rename, true},
		{"remove", path, fsnotify.Remove, false},
		{"chmod", path, fsnotify.Chmod, false},
		{"sibling file", filepath.Join(filepath.Dir(path), "other.toml"), fsnotify.Write, false},
		{"editor swap file", path + "~", fsnotify.Write, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cw.isConfigEvent(fsnotify.Event{Name: tt.file, Op: tt.op})
			if got != tt.want {
				t.Errorf("isConfigEvent(%s, %v) = %v, want %v", tt.file, tt.op, got, tt.want)
			}
		})
	}
}

func TestConfigWatcher_ReloadNotifiesSubscribers(t *testing.T) {
	path := testutil.WriteConfig(t, "default_title = \"Laps\"\n")

	cw := &ConfigWatcher{path: path, current: config.Default()}
	sub := &mockSubscriber{}
	cw.Subscribe(sub)

	cw.reload()

	if len(sub.changes) != 1 {
		t.Fatalf("Expected 1 change, got %d", len(sub.changes))
	}
	if sub.changes[0].DefaultTitle != "Laps" {
		t.Errorf("DefaultTitle = %q, want %q", sub.changes[0].DefaultTitle, "Laps")
	}
	if cw.Current().DefaultTitle != "Laps" {
		t.Errorf("Current().DefaultTitle = %q, want %q", cw.Current().DefaultTitle, "Laps")
	}
}

func TestConfigWatcher_InvalidEditKeepsPrevious(t *testing.T) {
	path := testutil.WriteConfig(t, "[filter]\nmatch = \"regex\"\n")

	previous := config.Default()
	cw := &ConfigWatcher{path: path, current: previous}
	sub := &mockSubscriber{}
	cw.Subscribe(sub)

	cw.reload()

	if len(sub.changes) != 0 {
		t.Errorf("Expected no notifications, got %d", len(sub.changes))
	}
	if cw.Current() != previous {
		t.Error("Invalid edit should keep the previous config")
	}
}

func TestConfigWatcher_Subscribe(t *testing.T) {
	cw := &ConfigWatcher{}

	cw.Subscribe(&mockSubscriber{})
	cw.Subscribe(&mockSubscriber{})

	if len(cw.subscribers) != 2 {
		t.Errorf("Expected 2 subscribers, got %d", len(cw.subscribers))
	}
}

func TestConfigWatcher_Unsubscribe(t *testing.T) {
	sub1 := &mockSubscriber{}
	sub2 := &mockSubscriber{}

	cw := &ConfigWatcher{
		subscribers: []ConfigSubscriber{sub1, sub2},
	}

	cw.Unsubscribe(sub1)

	if len(cw.subscribers) != 1 {
		t.Errorf("Expected 1 subscriber, got %d", len(cw.subscribers))
	}
	if cw.subscribers[0] != sub2 {
		t.Error("Wrong subscriber remained")
	}
}

func TestConfigWatcher_StoppedPreventsRestart(t *testing.T) {
	cw := &ConfigWatcher{
		stopped: true,
	}

	if err := cw.Start(); err == nil {
		t.Error("Expected error when starting stopped watcher")
	}
}
