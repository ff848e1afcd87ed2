package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-unified/internal/logger"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

var watchLog = logger.For("config")

// Watcher reloads a ConfigStore when its file changes on disk.
type Watcher struct {
	store    *ConfigStore
	debounce time.Duration
	onReload func()
}

// NewWatcher creates a watcher for store. onReload runs after every
// successful reload and may be nil.
func NewWatcher(store *ConfigStore, onReload func()) *Watcher {
	return &Watcher{store: store, debounce: DefaultDebounce, onReload: onReload}
}

// SetDebounce replaces the debounce window. Useful for testing.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches until ctx is cancelled. The directory is watched rather than
// the file so atomic replace-by-rename saves are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.store.Path())
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	watchLog.Debug("watching %s", w.store.Path())

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			watchLog.Warn("watch error: %v", err)
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// relevant reports whether an event touches the config file contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0
}

func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		watchLog.Warn("reload %s: %v", w.store.Path(), err)
		return
	}
	watchLog.Info("reloaded %s", w.store.Path())
	if w.onReload != nil {
		w.onReload()
	}
}
