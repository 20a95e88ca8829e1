// Package watch reloads the filing table when the source JSON export
// changes on disk. The watcher observes the file's directory, since
// editors and export jobs typically replace the file rather than write it
// in place, and debounces bursts of events into one reload.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"
)

// DefaultDebounce is the quiet period after the last event before a
// reload fires.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches one data file and invokes a callback after changes.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func()

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	timer    *time.Timer
}

// NewWatcher creates a watcher for the data file at path. onReload is
// called after each debounced change.
func NewWatcher(path string, onReload func()) *Watcher {
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		onReload: onReload,
	}
}

// SetDebounce overrides the debounce interval. Must be called before
// Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. It returns once the watch is established; events
// are handled on a background goroutine until Stop is called.
func (w *Watcher) Start() error {
	if w.path == "" {
		return fmt.Errorf("no data file configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	stopChan := make(chan struct{})

	w.mu.Lock()
	w.watcher = watcher
	w.stopChan = stopChan
	w.mu.Unlock()

	// The loop works on its own references; Stop never touches them.
	go w.watchLoop(watcher, stopChan)

	return nil
}

// Stop ends the watch and releases the underlying watcher. Safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	watcher := w.watcher
	stopChan := w.stopChan
	w.watcher = nil
	w.stopChan = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if stopChan != nil {
		close(stopChan)
	}
	if watcher != nil {
		watcher.Close()
	}
}

// watchLoop handles file system events until the stop channel closes or
// the watcher's channels drain.
func (w *Watcher) watchLoop(watcher *fsnotify.Watcher, stopChan chan struct{}) {
	base := filepath.Base(w.path)
	for {
		select {
		case <-stopChan:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Only events for the watched file matter.
			if filepath.Base(event.Name) != base {
				continue
			}

			switch {
			case event.Op&fsnotify.Write == fsnotify.Write:
				w.scheduleReload()
			case event.Op&fsnotify.Create == fsnotify.Create:
				w.scheduleReload()
			case event.Op&fsnotify.Rename == fsnotify.Rename:
				w.scheduleReload()
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; keep watching.
		}
	}
}

// scheduleReload arms the debounce timer, replacing any pending reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.onReload != nil {
			w.onReload()
		}
	})
}
