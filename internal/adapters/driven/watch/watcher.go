// Package watch invalidates cached verdicts when attachment files change
// on disk, using fsnotify.
package watch

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/refstack-labs/refcheck/internal/core/domain"
	"github.com/refstack-labs/refcheck/internal/logger"
)

// Invalidator receives invalidation calls for changed subjects.
// Satisfied by the validation engine.
type Invalidator interface {
	Invalidate(subject domain.Subject)
}

// Watcher maps filesystem events on attachment files to cache
// invalidations. A replaced or removed file affects every validation tier,
// so the engine drops all cached verdicts for the subject.
type Watcher struct {
	engine  Invalidator
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	subjects map[string]domain.Subject

	done chan struct{}
}

// NewWatcher creates a watcher bound to an invalidator.
func NewWatcher(engine Invalidator) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		engine:   engine,
		watcher:  fsw,
		subjects: make(map[string]domain.Subject),
		done:     make(chan struct{}),
	}, nil
}

// Watch registers a subject's local file for change notifications.
func (w *Watcher) Watch(subject domain.Subject) error {
	path := subject.FilePath()
	if path == "" {
		return fmt.Errorf("watch: %w: subject has no local file path", domain.ErrInvalidInput)
	}

	if err := w.watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.subjects[path] = subject
	return nil
}

// Unwatch stops watching a subject's local file.
func (w *Watcher) Unwatch(subject domain.Subject) {
	path := subject.FilePath()
	if path == "" {
		return
	}
	_ = w.watcher.Remove(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.subjects, path)
}

// Start launches the event loop in a goroutine.
func (w *Watcher) Start() {
	go w.run()
}

// Close stops the watcher and its event loop.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// run consumes filesystem events until closed.
func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if relevantOp(event.Op) {
				w.handleEvent(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error: %v", err)
		}
	}
}

// handleEvent invalidates the subject registered for a changed path.
func (w *Watcher) handleEvent(path string) {
	w.mu.Lock()
	subject, ok := w.subjects[path]
	w.mu.Unlock()
	if !ok {
		return
	}

	logger.Debug("file changed, invalidating %v: %s", subject.ID(), path)
	w.engine.Invalidate(subject)
}

// relevantOp reports whether an fsnotify op can change file content.
func relevantOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
