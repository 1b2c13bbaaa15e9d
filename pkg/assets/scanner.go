// Package assets builds the icon and pictogram snapshots from an installed
// Carbon package tree (a node_modules directory).
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/loader"
	"github.com/gnana997/carbonmcp/pkg/util"
)

// Package locations relative to node_modules.
const (
	IconsMetadata      = "@carbon/icons/metadata.json"
	IconsReactPackage  = "@carbon/icons-react"
	PictogramsMetadata = "@carbon/pictograms/metadata.json"
	PictogramsPackage  = "@carbon/pictograms-react"
)

// Origin tells where a collection was read from.
type Origin string

const (
	OriginMetadata Origin = "metadata"
	OriginScan     Origin = "scan"
	OriginNone     Origin = "none"
)

// Result is the outcome of a scan.
type Result struct {
	Icons           []catalog.Icon      `json:"icons"`
	Pictograms      []catalog.Pictogram `json:"pictograms"`
	IconOrigin      Origin              `json:"iconOrigin"`
	PictogramOrigin Origin              `json:"pictogramOrigin"`
}

type iconMetadata struct {
	Icons []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Size     *int   `json:"size"`
	} `json:"icons"`
}

type pictogramMetadata struct {
	Pictograms []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"pictograms"`
}

// Scanner reads asset packages below a node_modules directory.
type Scanner struct {
	root   string
	reader *util.SnapshotReader
	logger *zap.Logger
}

// NewScanner creates a Scanner rooted at nodeModules.
func NewScanner(nodeModules string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		root:   nodeModules,
		reader: util.NewSnapshotReader(logger),
		logger: logger.Named("assets"),
	}
}

// Scan collects icons and pictograms. A missing package yields an empty
// collection with OriginNone; only an unusable root is an error.
func (s *Scanner) Scan() (*Result, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read node_modules dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", s.root)
	}

	icons, iconOrigin, err := s.Icons()
	if err != nil {
		return nil, err
	}
	pictograms, pictoOrigin, err := s.Pictograms()
	if err != nil {
		return nil, err
	}
	return &Result{
		Icons:           icons,
		Pictograms:      pictograms,
		IconOrigin:      iconOrigin,
		PictogramOrigin: pictoOrigin,
	}, nil
}

// Icons reads the icon metadata file, falling back to scanning the React
// package's module files. Metadata order is kept; scanned icons are
// sorted by name.
func (s *Scanner) Icons() ([]catalog.Icon, Origin, error) {
	var meta iconMetadata
	ok, err := s.readMetadata(IconsMetadata, &meta)
	if err != nil {
		return nil, "", err
	}
	if ok {
		icons := make([]catalog.Icon, 0, len(meta.Icons))
		for _, m := range meta.Icons {
			if m.Name == "" {
				continue
			}
			icons = append(icons, catalog.Icon{
				Name:       m.Name,
				ImportPath: IconsReactPackage + "/" + m.Name,
				Category:   m.Category,
				Size:       m.Size,
			})
		}
		s.logger.Info("icons loaded from metadata", zap.Int("icons", len(icons)))
		return icons, OriginMetadata, nil
	}

	names, found, err := s.moduleNames(IconsReactPackage)
	if err != nil || !found {
		return []catalog.Icon{}, OriginNone, err
	}
	icons := make([]catalog.Icon, 0, len(names))
	for _, name := range names {
		icons = append(icons, catalog.Icon{
			Name:       name,
			ImportPath: IconsReactPackage + "/" + name,
			Category:   IconRules.Categorize(name, DefaultIconCategory),
		})
	}
	s.logger.Info("icons scanned", zap.Int("icons", len(icons)))
	return icons, OriginScan, nil
}

// Pictograms works like Icons for the pictogram packages.
func (s *Scanner) Pictograms() ([]catalog.Pictogram, Origin, error) {
	var meta pictogramMetadata
	ok, err := s.readMetadata(PictogramsMetadata, &meta)
	if err != nil {
		return nil, "", err
	}
	if ok {
		pictograms := make([]catalog.Pictogram, 0, len(meta.Pictograms))
		for _, m := range meta.Pictograms {
			if m.Name == "" {
				continue
			}
			pictograms = append(pictograms, catalog.Pictogram{
				Name:       m.Name,
				ImportPath: PictogramsPackage + "/" + m.Name,
				Category:   m.Category,
			})
		}
		s.logger.Info("pictograms loaded from metadata", zap.Int("pictograms", len(pictograms)))
		return pictograms, OriginMetadata, nil
	}

	names, found, err := s.moduleNames(PictogramsPackage)
	if err != nil || !found {
		return []catalog.Pictogram{}, OriginNone, err
	}
	pictograms := make([]catalog.Pictogram, 0, len(names))
	for _, name := range names {
		pictograms = append(pictograms, catalog.Pictogram{
			Name:       name,
			ImportPath: PictogramsPackage + "/" + name,
			Category:   PictogramRules.Categorize(name, DefaultPictogramCategory),
		})
	}
	s.logger.Info("pictograms scanned", zap.Int("pictograms", len(pictograms)))
	return pictograms, OriginScan, nil
}

// readMetadata decodes a metadata file. A missing or malformed file
// reports false so the caller falls back to scanning.
func (s *Scanner) readMetadata(rel string, dst any) (bool, error) {
	p := filepath.Join(s.root, filepath.FromSlash(rel))
	_, err := s.reader.Read(p, func(data []byte) error {
		return loader.Decode(p, data, dst)
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("metadata not found", zap.String("path", p))
		return false, nil
	default:
		s.logger.Warn("metadata unusable, scanning modules instead", zap.String("path", p), zap.Error(err))
		return false, nil
	}
}

// moduleNames lists the module names under <pkg>/lib, skipping index
// files. Names found in several size directories are reported once.
func (s *Scanner) moduleNames(pkg string) ([]string, bool, error) {
	if _, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(pkg), "lib")); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("package not installed", zap.String("package", pkg))
			return nil, false, nil
		}
		return nil, false, err
	}

	pattern := pkg + "/lib/**/*.js"
	matches, err := doublestar.Glob(os.DirFS(s.root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, false, fmt.Errorf("failed to glob %s: %w", pattern, err)
	}

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), ".js")
		if name == "" || name == "index" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, true, nil
}
