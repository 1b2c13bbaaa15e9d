package loader

import (
	"path/filepath"
)

// Default snapshot file names inside a data directory.
const (
	ComponentsFile = "components.json"
	TokensFile     = "tokens.json"
	IconsFile      = "icons.json"
	PictogramsFile = "pictograms.json"

	// DefaultDataDir is used when neither a data directory nor a components
	// path is configured.
	DefaultDataDir = "data"
)

// Sources are the four snapshot file locations.
type Sources struct {
	Components string `json:"components" yaml:"components"`
	Tokens     string `json:"tokens" yaml:"tokens"`
	Icons      string `json:"icons" yaml:"icons"`
	Pictograms string `json:"pictograms" yaml:"pictograms"`
}

// ResolveSources fills every unset override with its default file inside
// dataDir. When dataDir is empty it is derived from the components override's
// directory, else DefaultDataDir.
func ResolveSources(dataDir string, overrides Sources) Sources {
	if dataDir == "" {
		if overrides.Components != "" {
			dataDir = filepath.Dir(overrides.Components)
		} else {
			dataDir = DefaultDataDir
		}
	}

	resolved := overrides
	if resolved.Components == "" {
		resolved.Components = filepath.Join(dataDir, ComponentsFile)
	}
	if resolved.Tokens == "" {
		resolved.Tokens = filepath.Join(dataDir, TokensFile)
	}
	if resolved.Icons == "" {
		resolved.Icons = filepath.Join(dataDir, IconsFile)
	}
	if resolved.Pictograms == "" {
		resolved.Pictograms = filepath.Join(dataDir, PictogramsFile)
	}
	return resolved
}

// Paths returns the source paths in load order.
func (s Sources) Paths() []string {
	return []string{s.Components, s.Tokens, s.Icons, s.Pictograms}
}
