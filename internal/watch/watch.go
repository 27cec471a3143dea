// Package watch re-runs a callback when watched shell scripts change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before its callback fires.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called once per settled change with the cleaned file path.
type ChangeFunc func(ctx context.Context, path string)

// Watcher watches the parent directories of a set of files so that editors which
// replace a file by rename are still observed.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	logger   *zap.Logger
	files    map[string]struct{}
	dirs     map[string]struct{}
	pending  map[string]time.Time
	debounce time.Duration
	tick     time.Duration
}

// New creates a watcher. A nil logger discards logs.
func New(logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		fsw:      fsw,
		logger:   logger,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		pending:  make(map[string]time.Time),
		debounce: DefaultDebounce,
		tick:     50 * time.Millisecond,
	}, nil
}

// SetDebounce changes the quiet period. Non-positive values are ignored.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.debounce = d
	if d/4 < w.tick {
		w.tick = d / 4
	}
	w.mu.Unlock()
}

// Add registers files to watch.
func (w *Watcher) Add(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; !ok {
			if err := w.fsw.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			w.dirs[dir] = struct{}{}
			w.logger.Debug("watching directory", zap.String("dir", dir))
		}
		w.files[abs] = struct{}{}
	}
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

// Run blocks, delivering settled changes to fn until ctx is cancelled.
// The underlying watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	defer w.fsw.Close()

	w.mu.Lock()
	ticker := time.NewTicker(w.tick)
	w.mu.Unlock()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-ticker.C:
			for _, path := range w.settled(time.Now()) {
				w.logger.Debug("change settled", zap.String("file", path))
				fn(ctx, path)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// removal is not a change worth purifying; the replacement shows up as Create
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[name]; !ok {
		return
	}
	w.pending[name] = time.Now()
}

// settled removes and returns the files quiet for at least the debounce period.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
