package changelog

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Invalidator is implemented by caches that can drop their current value.
type Invalidator interface {
	Invalidate()
}

// FileWatcher invalidates a cache whenever the local fallback file changes.
// It watches the parent directory because editors commonly replace files
// rather than writing them in place.
type FileWatcher struct {
	path    string
	target  Invalidator
	watcher *fsnotify.Watcher
	mu      sync.Mutex
	closed  bool
}

// NewFileWatcher creates a watcher for path. The file does not need to exist yet.
func NewFileWatcher(path string, target Invalidator) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{path: abs, target: target, watcher: watcher}, nil
}

// Run processes file events until ctx is cancelled or Close is called.
func (fw *FileWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			fw.Close()
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[changelog] watcher error: %v", err)
		}
	}
}

// handleEvent invalidates the target on any change to the watched file.
func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		log.Printf("[changelog] %s changed (%s), invalidating cache", fw.path, event.Op)
		fw.target.Invalidate()
	}
}

// Close stops the watcher. Safe to call more than once.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return nil
	}
	fw.closed = true
	return fw.watcher.Close()
}
