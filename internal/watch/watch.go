// Package watch reloads Bible sources when files in the source directory
// change.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/FocuswithJustin/ChurchProjection/core/errors"
	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Reloader re-runs a load pass over dir. *scripture.Loader satisfies it.
type Reloader interface {
	LoadDir(ctx context.Context, dir string) (scripture.LoadReport, error)
}

// Stats counts watcher activity.
type Stats struct {
	Events  int
	Reloads int
	Errors  int
}

// Watcher triggers a reload once source files have been quiet for the
// debounce period. Only .xml and .xml.xz files count; a burst of changes
// produces one reload.
type Watcher struct {
	dir      string
	debounce time.Duration
	reloader Reloader

	mu    sync.Mutex
	stats Stats
}

// New returns a watcher for dir. A non-positive debounce uses DefaultDebounce.
func New(dir string, debounce time.Duration, reloader Reloader) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce, reloader: reloader}
}

// Stats returns a copy of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run watches until ctx is done. It returns an error only if the directory
// cannot be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return errors.NewIO("watch", w.dir, err)
	}
	logging.WatchEvent("started", w.dir, "debounce_ms", w.debounce.Milliseconds())

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchEvent("stopped", w.dir)
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.count(func(s *Stats) { s.Events++ })
			logging.WatchEvent(event.Op.String(), event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.count(func(s *Stats) { s.Errors++ })
			logging.Warn("watch error", "dir", w.dir, "error", err)

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	report, err := w.reloader.LoadDir(ctx, w.dir)
	if err != nil {
		w.count(func(s *Stats) { s.Errors++ })
		logging.Warn("reload failed", "dir", w.dir, "error", err)
		return
	}
	w.count(func(s *Stats) { s.Reloads++ })
	logging.WatchEvent("reloaded", w.dir, "versions", len(report.Versions))
}

func (w *Watcher) count(fn func(*Stats)) {
	w.mu.Lock()
	fn(&w.stats)
	w.mu.Unlock()
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return scripture.IsSource(filepath.Base(event.Name))
}
