// Package watch re-runs the pipeline whenever a tracked file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"prebuild/internal/directive"
	"prebuild/internal/logging"
)

// BuildFunc runs the pipeline once and returns its directives.
type BuildFunc func(ctx context.Context) ([]directive.Directive, error)

// Stats tracks watcher activity.
type Stats struct {
	Events       int
	Builds       int
	FailedBuilds int
	LastEvent    string
	LastEventAt  time.Time
}

// Watcher watches the change-tracking triggers of the last successful build.
// Parent directories are watched rather than the files themselves so that
// editors replacing a file by rename are still seen.
type Watcher struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	build    BuildFunc
	debounce time.Duration
	tracked  map[string]bool // absolute file paths
	dirs     map[string]bool // watched directories
	stats    Stats

	// OnError is called for rebuild failures after the first build.
	OnError func(error)
}

// New creates a Watcher. Call Run to start it.
func New(build BuildFunc, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher:  fw,
		build:    build,
		debounce: debounce,
		tracked:  make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Tracked returns the number of tracked files.
func (w *Watcher) Tracked() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.tracked)
}

// Run performs the initial build and then rebuilds on every settled change
// until ctx is cancelled. A failing initial build is returned; later
// failures go to OnError and the previous trigger set stays active.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			logging.WatchError("Error closing file watcher: %v", err)
		}
	}()

	if err := w.rebuild(ctx); err != nil {
		return err
	}

	changes := make(chan string, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.eventLoop(gctx, changes) })
	g.Go(func() error { return w.rebuildLoop(gctx, changes) })

	err := g.Wait()
	if ctx.Err() != nil {
		logging.Watch("Watch stopped")
		return nil
	}
	return err
}

func (w *Watcher) eventLoop(ctx context.Context, changes chan<- string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logging.WatchDebug("%s event for %s", event.Op, event.Name)
			w.mu.Lock()
			w.stats.Events++
			w.stats.LastEvent = event.Name
			w.stats.LastEventAt = time.Now()
			w.mu.Unlock()

			select {
			case changes <- event.Name:
			default:
				// a rebuild is already pending
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.WatchError("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) rebuildLoop(ctx context.Context, changes <-chan string) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-changes:
			logging.WatchDebug("Change detected: %s (debounce %v)", path, w.debounce)
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			if err := w.rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if w.OnError != nil {
					w.OnError(err)
				}
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tracked[abs]
}

func (w *Watcher) rebuild(ctx context.Context) error {
	timer := logging.StartTimer(logging.CategoryWatch, "rebuild")
	defer timer.Stop()

	ds, err := w.build(ctx)
	w.mu.Lock()
	w.stats.Builds++
	if err != nil {
		w.stats.FailedBuilds++
	}
	w.mu.Unlock()
	if err != nil {
		logging.WatchError("Build failed: %v", err)
		return err
	}

	w.track(directive.Paths(ds))
	return nil
}

// track replaces the tracked set and adjusts directory watches.
func (w *Watcher) track(paths []string) {
	tracked := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			logging.WatchDebug("Skipping %s: %v", p, err)
			continue
		}
		tracked[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for dir := range w.dirs {
		if !dirs[dir] {
			if err := w.watcher.Remove(dir); err != nil {
				logging.WatchDebug("Failed to unwatch %s: %v", dir, err)
			}
			delete(w.dirs, dir)
		}
	}
	for dir := range dirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			// The directory may not exist yet; the next build retries.
			logging.WatchDebug("Failed to watch %s: %v", dir, err)
			continue
		}
		w.dirs[dir] = true
	}
	w.tracked = tracked
	logging.Watch("Watching %d files in %d directories", len(tracked), len(w.dirs))
}
