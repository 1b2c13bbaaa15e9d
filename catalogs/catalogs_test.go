package catalogs

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/loader"
)

func TestCarbon_LoadsCleanly(t *testing.T) {
	dir := t.TempDir()
	res, err := Install(dir)
	require.NoError(t, err)
	assert.Len(t, res.Written, len(CarbonFiles))
	assert.Empty(t, res.Skipped)

	store := catalog.NewStore()
	stats, err := loader.New(store, loader.ResolveSources(dir, loader.Sources{})).Load()
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Components)
	assert.Equal(t, 19, stats.Icons)
	assert.Equal(t, 10, stats.Pictograms)
	assert.True(t, stats.TokensLoaded)
	assert.Empty(t, catalog.DuplicateNames(store.Snapshot().Components))
}

func TestInstall_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "icons.json")
	require.NoError(t, os.WriteFile(existing, []byte("[]"), 0o644))

	res, err := Install(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{existing}, res.Skipped)
	assert.Len(t, res.Written, 3)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCarbonFiles_AllEmbedded(t *testing.T) {
	for _, name := range CarbonFiles {
		_, err := fs.Stat(Carbon(), name)
		assert.NoError(t, err, name)
	}
	assert.NotEmpty(t, CarbonSeedJSON)
}
