package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/util"
)

// Source names used in errors and logs.
const (
	SourceComponents = "components"
	SourceTokens     = "tokens"
	SourceIcons      = "icons"
	SourcePictograms = "pictograms"
)

// Observer is notified after every load attempt.
type Observer interface {
	ObserveLoad(stats catalog.LoadStats, duration time.Duration, err error)
}

// Loader reads snapshot files and applies them to a Store. Loads are
// serialized; a load either applies every present source or nothing.
type Loader struct {
	mu       sync.Mutex
	store    *catalog.Store
	sources  Sources
	reader   *util.SnapshotReader
	logger   *zap.Logger
	observer Observer
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithObserver registers an Observer for load outcomes.
func WithObserver(o Observer) Option {
	return func(l *Loader) { l.observer = o }
}

// New creates a Loader for the given store and sources.
func New(store *catalog.Store, sources Sources, opts ...Option) *Loader {
	l := &Loader{
		store:   store,
		sources: sources,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.Named("loader")
	l.reader = util.NewSnapshotReader(l.logger)
	return l
}

// Sources returns the resolved source paths.
func (l *Loader) Sources() Sources {
	return l.sources
}

// Load reads every source and replaces the matching collections. A missing
// file keeps the collection currently in the store. If any present file
// fails to decode or validate, nothing is applied and a *catalog.LoadError
// is returned together with the unchanged stats.
func (l *Loader) Load() (catalog.LoadStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	var (
		update   catalog.Update
		failures []catalog.SourceError
		total    int64
	)

	fail := func(source, path string, err error) {
		failures = append(failures, catalog.SourceError{Source: source, Path: path, Err: err})
	}

	var components []catalog.Component
	if ok, n, err := l.decode(l.sources.Components, &components); err != nil {
		fail(SourceComponents, l.sources.Components, err)
	} else if ok {
		total += n
		if errs := catalog.ValidateComponents(components); len(errs) > 0 {
			fail(SourceComponents, l.sources.Components, errors.Join(errs...))
		} else {
			for _, name := range catalog.DuplicateNames(components) {
				l.logger.Warn("duplicate component name, last definition wins", zap.String("name", name))
			}
			update.Components = &components
		}
	}

	var tokens catalog.TokenSet
	if ok, n, err := l.decode(l.sources.Tokens, &tokens); err != nil {
		fail(SourceTokens, l.sources.Tokens, err)
	} else if ok {
		total += n
		update.Tokens = &tokens
	}

	var icons []catalog.Icon
	if ok, n, err := l.decode(l.sources.Icons, &icons); err != nil {
		fail(SourceIcons, l.sources.Icons, err)
	} else if ok {
		total += n
		if errs := catalog.ValidateIcons(icons); len(errs) > 0 {
			fail(SourceIcons, l.sources.Icons, errors.Join(errs...))
		} else {
			update.Icons = &icons
		}
	}

	var pictograms []catalog.Pictogram
	if ok, n, err := l.decode(l.sources.Pictograms, &pictograms); err != nil {
		fail(SourcePictograms, l.sources.Pictograms, err)
	} else if ok {
		total += n
		if errs := catalog.ValidatePictograms(pictograms); len(errs) > 0 {
			fail(SourcePictograms, l.sources.Pictograms, errors.Join(errs...))
		} else {
			update.Pictograms = &pictograms
		}
	}

	if len(failures) > 0 {
		err := &catalog.LoadError{Sources: failures}
		stats := l.store.Snapshot().Stats()
		l.logger.Error("catalog load rejected, keeping previous snapshot", zap.Error(err))
		l.notify(stats, time.Since(start), err)
		return stats, err
	}

	stats := l.store.Apply(update)
	l.logger.Info("catalog loaded",
		zap.Int("components", stats.Components),
		zap.Int("icons", stats.Icons),
		zap.Int("pictograms", stats.Pictograms),
		zap.Bool("tokens_loaded", stats.TokensLoaded),
		zap.String("read", humanize.Bytes(uint64(total))),
		zap.Duration("took", time.Since(start)),
	)
	l.notify(stats, time.Since(start), nil)
	return stats, nil
}

// Refresh is a full reload of every source. It has the same semantics as Load.
func (l *Loader) Refresh() (catalog.LoadStats, error) {
	return l.Load()
}

func (l *Loader) notify(stats catalog.LoadStats, d time.Duration, err error) {
	if l.observer != nil {
		l.observer.ObserveLoad(stats, d, err)
	}
}

// decode reads path into dst. It reports false with no error when the file
// does not exist.
func (l *Loader) decode(path string, dst any) (bool, int64, error) {
	if path == "" {
		return false, 0, nil
	}
	size, err := l.reader.Read(path, func(data []byte) error {
		return Decode(path, data, dst)
	})
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("source not found, keeping current value", zap.String("path", path))
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	l.logger.Debug("source read", zap.String("path", path), zap.String("size", humanize.Bytes(uint64(size))))
	return true, size, nil
}

// Decode unmarshals a snapshot file by extension: .yaml and .yml use YAML,
// anything else JSON.
func Decode(path string, data []byte, dst any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
		return nil
	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return errors.New("failed to parse JSON: empty file")
		}
		if bytes.Equal(trimmed, []byte("null")) {
			return errors.New("failed to parse JSON: document is null")
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nil
	}
}
