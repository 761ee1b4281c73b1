package api

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/amterp/tally/internal/config"
	"github.com/amterp/tally/internal/logging"
)

// ConfigSubscriber receives the reloaded config after each valid edit.
type ConfigSubscriber interface {
	OnConfigChange(cfg *config.Config)
}

// ConfigWatcher watches the config file and notifies subscribers when it
// changes. An edit that fails to load is logged and the previous config
// stays in effect.
type ConfigWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	delay       time.Duration
	mu          sync.RWMutex
	subscribers []ConfigSubscriber
	current     *config.Config
	timer       *time.Timer
	stopCh      chan struct{}
	stopped     bool // Once stopped, cannot restart
	running     bool
}

// NewConfigWatcher creates a watcher for the config file at path. current is
// the config already in effect.
func NewConfigWatcher(path string, current *config.Config) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ConfigWatcher{
		watcher: watcher,
		path:    filepath.Clean(path),
		delay:   100 * time.Millisecond,
		current: current,
		stopCh:  make(chan struct{}),
	}, nil
}

// Subscribe adds a subscriber to receive config changes.
func (cw *ConfigWatcher) Subscribe(sub ConfigSubscriber) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.subscribers = append(cw.subscribers, sub)
}

// Unsubscribe removes a subscriber.
func (cw *ConfigWatcher) Unsubscribe(sub ConfigSubscriber) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	for i, s := range cw.subscribers {
		if s == sub {
			cw.subscribers = append(cw.subscribers[:i], cw.subscribers[i+1:]...)
			return
		}
	}
}

// Current returns the config in effect.
func (cw *ConfigWatcher) Current() *config.Config {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.current
}

// Start begins watching. The parent directory is watched rather than the file
// itself so editors that replace the file on save are still seen.
func (cw *ConfigWatcher) Start() error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return nil
	}
	if cw.stopped {
		cw.mu.Unlock()
		return fmt.Errorf("config watcher cannot be restarted after stop")
	}
	cw.running = true
	cw.mu.Unlock()

	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(cw.path), err)
	}

	go cw.run()
	return nil
}

// Stop stops watching for changes.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if !cw.running || cw.stopped {
		cw.mu.Unlock()
		return nil
	}
	cw.running = false
	cw.stopped = true
	if cw.timer != nil {
		cw.timer.Stop()
		cw.timer = nil
	}
	cw.mu.Unlock()

	close(cw.stopCh)
	return cw.watcher.Close()
}

func (cw *ConfigWatcher) run() {
	log := logging.Component("config")
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("watcher error")

		case <-cw.stopCh:
			return
		}
	}
}

func (cw *ConfigWatcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != cw.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0
}

func (cw *ConfigWatcher) handleEvent(event fsnotify.Event) {
	if !cw.isConfigEvent(event) {
		return
	}

	// Debounce: editors often write several times per save.
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.stopped {
		return
	}
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.delay, cw.reload)
}

// reload loads the file and, if valid, swaps it in and notifies subscribers.
func (cw *ConfigWatcher) reload() {
	log := logging.Component("config")

	cfg, err := config.Load(cw.path)
	if err != nil {
		log.Warn().Err(err).Str("path", cw.path).Msg("ignoring invalid config edit")
		return
	}

	cw.mu.Lock()
	if cw.stopped {
		cw.mu.Unlock()
		return
	}
	cw.current = cfg
	subs := make([]ConfigSubscriber, len(cw.subscribers))
	copy(subs, cw.subscribers)
	cw.mu.Unlock()

	log.Info().Str("path", cw.path).Msg("config reloaded")
	for _, sub := range subs {
		sub.OnConfigChange(cfg)
	}
}
