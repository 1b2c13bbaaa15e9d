// Package catalogs provides the embedded sample Carbon catalog and the
// component seed used by the offline generators.
package catalogs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed carbon/*.json
var carbonFS embed.FS

// CarbonSeedJSON is the bundled component documentation seed.
//
//go:embed seed/carbon-seed.json
var CarbonSeedJSON []byte

// CarbonFiles lists the bundled snapshot files in write order.
var CarbonFiles = []string{"components.json", "tokens.json", "icons.json", "pictograms.json"}

// Carbon returns the bundled snapshot files as a file system.
func Carbon() fs.FS {
	sub, err := fs.Sub(carbonFS, "carbon")
	if err != nil {
		panic(err)
	}
	return sub
}

// WriteResult reports which files Install wrote and which it left alone.
type WriteResult struct {
	Written []string
	Skipped []string
}

// Install copies the bundled snapshot files into dir. Existing files are
// never overwritten.
func Install(dir string) (*WriteResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	src := Carbon()
	res := &WriteResult{}
	for _, name := range CarbonFiles {
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			res.Skipped = append(res.Skipped, dst)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("failed to stat %s: %w", dst, err)
		}

		data, err := fs.ReadFile(src, name)
		if err != nil {
			return res, fmt.Errorf("failed to read bundled %s: %w", name, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", dst, err)
		}
		res.Written = append(res.Written, dst)
	}
	return res, nil
}
