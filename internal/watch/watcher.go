// Package watch triggers enrichment when new documents land in the inbox.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher observes one vault folder and invokes the handler once per settled
// markdown file. Writes are debounced so a file still being downloaded is
// only handled after it goes quiet.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   func(relPath string)

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// NewWatcher watches dir (an absolute folder on disk); handle receives the
// file name relative to dir.
func NewWatcher(dir string, handle func(relPath string)) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: defaultDebounce,
		handle:   handle,
		pending:  make(map[string]*time.Timer),
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	defer w.stopPending()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	fmt.Printf("👀 Watching %s for new captures...\n", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("⚠️  Watcher error: %v\n", err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer for one file.
func (w *Watcher) schedule(fullPath string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if timer, ok := w.pending[fullPath]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[fullPath] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		delete(w.pending, fullPath)
		w.mu.Unlock()

		rel, err := filepath.Rel(w.dir, fullPath)
		if err != nil {
			return
		}
		w.handle(filepath.ToSlash(rel))
	})
}

// stopPending disarms every debounce timer so no handler runs after Run has
// returned.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for p, timer := range w.pending {
		timer.Stop()
		delete(w.pending, p)
	}
}
