// Package generate builds the components snapshot from a curated seed file
// and the props declared in a component library's type definitions.
package generate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/loader"
	"github.com/gnana997/carbonmcp/pkg/parser"
	"github.com/gnana997/carbonmcp/pkg/util"
)

const (
	// DefaultImportBase prefixes every generated import path.
	DefaultImportBase = "@carbon/react"
	// DefaultCategory is used for seed entries without a category.
	DefaultCategory = "Other"
	// DeclarationPattern selects type definition files under the types dir.
	DeclarationPattern = "**/*.d.ts"
)

// SeedEntry is the hand-written documentation for one component.
type SeedEntry struct {
	Description string   `json:"description" yaml:"description"`
	WhenToUse   string   `json:"whenToUse" yaml:"whenToUse"`
	Examples    []string `json:"examples" yaml:"examples"`
	Category    string   `json:"category" yaml:"category"`
}

// Seed maps component name to its documentation.
type Seed map[string]SeedEntry

// Options configures a generation run.
type Options struct {
	// Seed is used as is when set; otherwise it is read from SeedPath.
	Seed     Seed
	SeedPath string
	// TypesDir is searched for .d.ts files. Empty skips prop extraction.
	TypesDir   string
	ImportBase string
	// Workers defaults to the CPU-based pool size when zero.
	Workers int
	Logger  *zap.Logger
}

// Report summarises a generation run.
type Report struct {
	Components         int   `json:"components"`
	FilesScanned       int   `json:"filesScanned"`
	FilesFailed        int   `json:"filesFailed"`
	WithExtractedProps int   `json:"withExtractedProps"`
	DurationMs         int64 `json:"durationMs"`
}

// CommonProps are added to every generated component ahead of its
// extracted props.
func CommonProps() []catalog.Prop {
	return []catalog.Prop{
		{Name: "children", Type: "ReactNode", Description: "Content rendered inside the component"},
		{Name: "className", Type: "string", Description: "Custom CSS class name"},
		{Name: "id", Type: "string", Description: "Unique element identifier"},
		{Name: "onClick", Type: "() => void", Description: "Called when the element is clicked"},
	}
}

// LoadSeed reads a JSON or YAML seed file.
func LoadSeed(path string, logger *zap.Logger) (Seed, error) {
	var seed Seed
	reader := util.NewSnapshotReader(logger)
	if _, err := reader.Read(path, func(data []byte) error {
		var err error
		seed, err = ParseSeed(path, data)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}
	return seed, nil
}

// ParseSeed decodes seed data; name selects the format by extension.
func ParseSeed(name string, data []byte) (Seed, error) {
	var seed Seed
	if err := loader.Decode(name, data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if len(seed) == 0 {
		return nil, fmt.Errorf("seed %s has no components", name)
	}
	return seed, nil
}

// Generate loads the seed, extracts props from TypesDir and returns the
// components sorted by name.
func Generate(opts Options) ([]catalog.Component, Report, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("generate")

	var report Report
	seed := opts.Seed
	if seed == nil {
		var err error
		if seed, err = LoadSeed(opts.SeedPath, logger); err != nil {
			return nil, report, err
		}
	}
	logger.Info("seed loaded", zap.Int("components", len(seed)))

	declared := map[string][]catalog.Prop{}
	if opts.TypesDir != "" {
		files, err := DiscoverDeclarations(opts.TypesDir)
		if err != nil {
			return nil, report, err
		}
		report.FilesScanned = len(files)
		logger.Info("discovery complete", zap.Int("files", len(files)))

		pm := parser.NewParserManager(logger, opts.Workers)
		defer pm.Close()
		declared, report.FilesFailed = ExtractDeclarations(files, pm, opts.Workers, logger)
		logger.Info("prop extraction complete",
			zap.Int("declarations", len(declared)),
			zap.Int("failed", report.FilesFailed))
	}

	importBase := opts.ImportBase
	if importBase == "" {
		importBase = DefaultImportBase
	}
	components := Build(seed, declared, importBase)

	report.Components = len(components)
	for _, comp := range components {
		if _, ok := declared[comp.Name+parser.PropsSuffix]; ok {
			report.WithExtractedProps++
		}
	}
	report.DurationMs = time.Since(start).Milliseconds()
	return components, report, nil
}

// DiscoverDeclarations returns the sorted .d.ts files under dir.
func DiscoverDeclarations(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read types dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("types dir %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), DeclarationPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", dir, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

// ExtractDeclarations parses files in parallel and maps each props type
// name to its props. When a name is declared in several files the first
// file in the given order wins. Unreadable or unparsable files are logged
// and counted.
func ExtractDeclarations(files []string, pm *parser.ParserManager, workers int, logger *zap.Logger) (map[string][]catalog.Prop, int) {
	declared := make(map[string][]catalog.Prop)
	if len(files) == 0 {
		return declared, 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	numWorkers := util.WorkerCount(workers)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	type job struct {
		index int
		path  string
	}
	type result struct {
		decls []parser.PropsDeclaration
		err   error
	}
	jobs := make(chan job, numWorkers*2)
	results := make([]result, len(files))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				source, err := os.ReadFile(j.path)
				if err != nil {
					results[j.index] = result{err: err}
					continue
				}
				decls, err := pm.ExtractFile(source, j.path)
				results[j.index] = result{decls: decls, err: err}
			}
		}()
	}

	for i, f := range files {
		jobs <- job{index: i, path: f}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for i, r := range results {
		if r.err != nil {
			logger.Warn("extraction failed", zap.String("file", files[i]), zap.Error(r.err))
			failed++
			continue
		}
		for _, d := range r.decls {
			if _, exists := declared[d.Name]; !exists {
				declared[d.Name] = d.Props
			}
		}
	}
	return declared, failed
}

// Build merges seed documentation with extracted props. Each component
// gets CommonProps followed by the props of its `<Name>Props` declaration;
// an extracted prop with a common name replaces the common one in place.
func Build(seed Seed, declared map[string][]catalog.Prop, importBase string) []catalog.Component {
	components := make([]catalog.Component, 0, len(seed))
	for name, entry := range seed {
		category := entry.Category
		if category == "" {
			category = DefaultCategory
		}
		components = append(components, catalog.Component{
			Name:        name,
			Description: entry.Description,
			WhenToUse:   entry.WhenToUse,
			Examples:    entry.Examples,
			Category:    category,
			ImportPath:  importBase + "/" + name,
			Props:       mergeProps(CommonProps(), declared[name+parser.PropsSuffix]),
		})
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})
	return components
}

func mergeProps(common, extracted []catalog.Prop) []catalog.Prop {
	props := common
	pos := make(map[string]int, len(common))
	for i, p := range common {
		pos[p.Name] = i
	}
	for _, p := range extracted {
		if i, ok := pos[p.Name]; ok {
			props[i] = p
			continue
		}
		pos[p.Name] = len(props)
		props = append(props, p)
	}
	return props
}

// ErrNoOutput is returned by Write when no output path is given.
var ErrNoOutput = errors.New("output path is required")

// Write stores components as a snapshot file.
func Write(path string, components []catalog.Component) error {
	if path == "" {
		return ErrNoOutput
	}
	return loader.WriteSnapshot(path, components)
}
