package parser

import (
	"path/filepath"
	"strings"
)

// Dialect selects the TypeScript grammar variant used for a file.
type Dialect int

const (
	// DialectTypeScript covers .ts, .mts, .cts and .d.ts files.
	DialectTypeScript Dialect = iota
	// DialectTSX covers .tsx files (TypeScript with JSX).
	DialectTSX
	// DialectUnknown marks files that are not TypeScript.
	DialectUnknown
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	switch d {
	case DialectTypeScript:
		return "typescript"
	case DialectTSX:
		return "tsx"
	default:
		return "unknown"
	}
}

// DetectDialect picks the grammar from a file path.
// Returns DialectUnknown if the extension is not a TypeScript one.
func DetectDialect(filePath string) Dialect {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".tsx":
		return DialectTSX
	default:
		return DialectUnknown
	}
}

// IsDeclarationFile reports whether the path is a TypeScript declaration file.
func IsDeclarationFile(filePath string) bool {
	name := strings.ToLower(filepath.Base(filePath))
	return strings.HasSuffix(name, ".d.ts") ||
		strings.HasSuffix(name, ".d.mts") ||
		strings.HasSuffix(name, ".d.cts")
}
