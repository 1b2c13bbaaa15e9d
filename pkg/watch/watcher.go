// Package watch reloads the catalog when its snapshot files change on disk.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

// DefaultDebounce groups bursts of file events into one refresh.
const DefaultDebounce = 200 * time.Millisecond

// Refresher performs a full catalog reload.
type Refresher interface {
	Refresh() (catalog.LoadStats, error)
}

// Options configures a Watcher.
type Options struct {
	// Debounce defaults to DefaultDebounce when zero.
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher watches the directories holding the catalog sources and triggers
// a debounced refresh whenever one of the source files is written, created,
// renamed or removed. Directories are watched rather than files so editors
// that replace files atomically are still seen.
//
//	w, err := watch.New(loader, loader.Sources().Paths(), watch.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher   *fsnotify.Watcher
	refresher Refresher
	files     map[string]struct{}
	dirs      []string
	debounce  time.Duration
	logger    *zap.Logger

	timerMu sync.Mutex
	timer   *time.Timer

	stopChan chan struct{}
	done     chan struct{}
	stopped  bool
	started  bool
	mu       sync.Mutex
}

// New creates a Watcher for the given source paths. Empty paths are ignored.
func New(refresher Refresher, paths []string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		watcher:   fsw,
		refresher: refresher,
		files:     make(map[string]struct{}, len(paths)),
		debounce:  opts.Debounce,
		logger:    logger.Named("watch"),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}

	seenDirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Start adds the watches and begins processing events in the background.
// Directories that do not exist yet are skipped with a warning.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher already stopped")
	}
	if w.started {
		return errors.New("watcher already started")
	}

	watched := 0
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch directory", zap.String("path", dir), zap.Error(err))
			continue
		}
		watched++
	}
	if watched == 0 && len(w.dirs) > 0 {
		return fmt.Errorf("no source directory could be watched (%d configured)", len(w.dirs))
	}

	w.started = true
	go w.eventLoop()
	w.logger.Info("file watcher started", zap.Strings("dirs", w.dirs), zap.Duration("debounce", w.debounce))
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	close(w.stopChan)
	w.mu.Unlock()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerMu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.isSource(event.Name) {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return
	}
	w.logger.Debug("source changed", zap.String("op", event.Op.String()), zap.String("file", event.Name))
	w.scheduleRefresh()
}

func (w *Watcher) isSource(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

// scheduleRefresh resets the debounce timer.
func (w *Watcher) scheduleRefresh() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.refresh)
}

func (w *Watcher) refresh() {
	select {
	case <-w.stopChan:
		return
	default:
	}

	stats, err := w.refresher.Refresh()
	if err != nil {
		w.logger.Error("catalog refresh failed, keeping previous snapshot", zap.Error(err))
		return
	}
	w.logger.Info("catalog refreshed",
		zap.Int("components", stats.Components),
		zap.Int("icons", stats.Icons),
		zap.Int("pictograms", stats.Pictograms),
		zap.Bool("tokens_loaded", stats.TokensLoaded),
	)
}
