package ui

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of filesystem events into one refresh.
const watchDebounce = 200 * time.Millisecond

// Watcher reports external changes under the current listing root so the
// view can re-list with cursor continuity. It watches only the root
// directory itself; deeper changes surface on the next user-driven re-list.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan struct{}
	done   chan struct{}

	mu   sync.Mutex
	root string
}

// NewWatcher starts the event pump. Call Watch to attach a root.
func NewWatcher() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:     fs,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Watch switches the watched root. The previous root is dropped first so a
// Descend or Ascend never double-reports.
func (w *Watcher) Watch(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if root == "" || root == w.root {
		return
	}
	if w.root != "" {
		_ = w.fs.Remove(w.root)
	}
	// Ignore errors: the root may have just been deleted. The next listing
	// reports that properly.
	_ = w.fs.Add(root)
	w.root = root
}

// Events delivers one signal per debounced change burst.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Stop tears the watcher down and closes the event channel.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fs.Close()
}

func (w *Watcher) run() {
	defer close(w.events)

	var timer *time.Timer
	var mu sync.Mutex
	closed := false

	defer func() {
		mu.Lock()
		closed = true
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-w.done:
			return
		case _, ok := <-w.fs.Events:
			if !ok {
				return
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				mu.Lock()
				defer mu.Unlock()
				if closed {
					return
				}
				select {
				case w.events <- struct{}{}:
				default: // a signal is already pending
				}
			})
			mu.Unlock()
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}
