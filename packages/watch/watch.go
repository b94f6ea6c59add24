// Package watch re-runs a callback when watched files change.
//
// Events are debounced so that an editor's burst of writes triggers one run,
// and runs are rate limited so a file rewritten in a loop cannot spin the
// callback.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/speclab/packages/logging"
)

const (
	// DefaultDebounce is how long the watcher waits for writes to settle.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultInterval is the minimum time between two callback runs.
	DefaultInterval = 500 * time.Millisecond
)

// Watcher watches a fixed set of files.
type Watcher struct {
	paths    []string
	debounce time.Duration
	limiter  *rate.Limiter
	log      *slog.Logger
	ready    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithInterval sets the minimum time between callback runs.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger used for watcher and callback errors.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a watcher for paths.
func New(paths []string, opts ...Option) *Watcher {
	w := &Watcher{
		paths:    paths,
		debounce: DefaultDebounce,
		limiter:  rate.NewLimiter(rate.Every(DefaultInterval), 1),
		log:      logging.NewNop(),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once every path is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is done, calling onChange with the changed path after
// each settled burst of writes. Callback errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context, onChange func(path string) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// Directories are watched rather than files so that editors which save by
	// rename-and-replace keep triggering events.
	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	close(w.ready)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
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

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
			w.log.Debug("file changed", "path", pending)
			if err := onChange(pending); err != nil {
				w.log.Error("watch callback failed", "path", pending, "err", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "err", err)
		}
	}
}
