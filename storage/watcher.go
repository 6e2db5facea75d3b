package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes to a single file. It watches the parent
// directory so replacing the file by rename is also seen.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	lastMod time.Time
}

// NewFileWatcher starts watching the directory containing path.
func NewFileWatcher(path string, debounce time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: new watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch: add %q: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		path:     abs,
		watcher:  watcher,
		debounce: debounce,
	}, nil
}

// Watch calls onChange once per burst of write/create/rename events on the
// file. It blocks until ctx is done or the watcher fails.
func (w *FileWatcher) Watch(ctx context.Context, onChange func(path string)) error {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.mu.Lock()
			w.lastMod = time.Now()
			w.mu.Unlock()

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange(w.path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}

// LastEvent returns the time of the most recent relevant event.
func (w *FileWatcher) LastEvent() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastMod
}

// Close stops the underlying watcher.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}
