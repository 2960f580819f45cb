package assets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ErrWatcherClosed is returned when using a closed Watcher.
var ErrWatcherClosed = errors.New("watcher already closed")

// Watcher reports changes to individual asset files.
//
// Parent directories are watched rather than the files themselves so that
// editors replacing a file by rename are still seen. Bursts of events for
// the same files are coalesced into one callback per file after the
// debounce interval has passed without further events.
type Watcher struct {
	fs       *fsnotify.Watcher
	loader   *Loader
	debounce time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	files  map[string]struct{}
	dirs   map[string]struct{}
	closed bool
}

// NewWatcher creates a watcher. loader may be nil; when set, changed files
// are evicted from its cache before the callback runs.
func NewWatcher(loader *Loader, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		fs:       fsWatch,
		loader:   loader,
		debounce: debounce,
		log:      log,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Add starts watching one file.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	dir := filepath.Dir(abs)
	if _, ok := w.dirs[dir]; !ok {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}
	return nil
}

// Files returns the watched files in sorted order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[path]
	return ok
}

// Run delivers changed paths to fn until ctx is done or the watcher is
// closed. Errors from fn are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func(path string) error) error {
	pending := make(map[string]struct{})
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case e, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			path := filepath.Clean(e.Name)
			if !w.watched(path) {
				continue
			}
			if w.loader != nil {
				w.loader.Invalidate(path)
			}
			w.log.Debug("asset changed", zap.String("path", path), zap.Stringer("op", e.Op))
			pending[path] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)

			for _, p := range changed {
				if err := fn(p); err != nil {
					w.log.Warn("reload failed", zap.String("path", p), zap.Error(err))
				}
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fs.Close()
}
