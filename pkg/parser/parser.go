// Package parser wraps tree-sitter's TypeScript grammar to read component
// prop declarations out of type definition files.
package parser

import (
	"fmt"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	"go.uber.org/zap"

	"github.com/gnana997/carbonmcp/pkg/util"
)

// ParserManager hands out pooled tree-sitter parsers per dialect.
//
// Pools are created lazily on first use. The manager owns the pools and
// must be closed via Close(); callers own every Tree returned by Parse and
// must call tree.Close() after use.
//
// Safe for concurrent use: up to poolSize goroutines parse the same
// dialect in parallel.
//
//	manager := parser.NewParserManager(logger, 0)
//	defer manager.Close()
//
//	tree, err := manager.ParseFile(source, "lib/components/Button/Button.d.ts")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[Dialect]*parserPool
	poolSize int

	mutex  sync.RWMutex
	logger *zap.Logger

	stats struct {
		parsesCalled int
	}
}

// NewParserManager creates a ParserManager. A poolSize of 0 picks the size
// from the CPU count; it should match the number of workers feeding it.
func NewParserManager(logger *zap.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParserManager{
		pools:    make(map[Dialect]*parserPool),
		poolSize: util.WorkerCount(poolSize),
		logger:   logger.Named("parser"),
	}
}

// Parse parses source with the given dialect. Partial trees are returned
// for sources with syntax errors.
func (pm *ParserManager) Parse(source []byte, dialect Dialect) (*ts.Tree, error) {
	if dialect == DialectUnknown {
		return nil, fmt.Errorf("cannot parse unknown dialect")
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", dialect, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}
	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", zap.Stringer("dialect", dialect))
	}
	return tree, nil
}

// ParseFile parses source, picking the dialect from filePath.
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	dialect := DetectDialect(filePath)
	if dialect == DialectUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return pm.Parse(source, dialect)
}

// Close releases all parser pool resources. The manager cannot be used
// afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	closed := 0
	for _, pool := range pm.pools {
		closed += pool.close()
	}
	pm.logger.Debug("closed parser pools",
		zap.Int("parsers_closed", closed),
		zap.Int("parses_called", pm.stats.parsesCalled))

	pm.pools = make(map[Dialect]*parserPool)
	return nil
}

// getOrCreatePool returns an existing pool or creates one, using
// double-checked locking.
func (pm *ParserManager) getOrCreatePool(dialect Dialect) (*parserPool, error) {
	pm.mutex.RLock()
	pool, exists := pm.pools[dialect]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[dialect]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(dialect)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(dialect, langPtr, pm.poolSize, pm.logger)
	pm.pools[dialect] = pool
	return pool, nil
}

func languagePointer(dialect Dialect) (unsafe.Pointer, error) {
	switch dialect {
	case DialectTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case DialectTSX:
		return ts_typescript.LanguageTSX(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	total := 0
	for _, pool := range pm.pools {
		total += pool.getCreatedCount()
	}
	return ParserStats{
		ParsersCreated: total,
		ParsesCalled:   pm.stats.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}
