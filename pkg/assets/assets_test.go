package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRules_Categorize(t *testing.T) {
	tests := []struct {
		name     string
		rules    Rules
		input    string
		fallback string
		want     string
	}{
		{"icon action", IconRules, "AddAlt", DefaultIconCategory, "Actions"},
		{"icon first rule wins", IconRules, "UserFilter", DefaultIconCategory, "Actions"},
		{"icon navigation", IconRules, "ChevronDown", DefaultIconCategory, "Navigation"},
		{"icon fallback", IconRules, "Bee", DefaultIconCategory, "Other"},
		{"pictogram cloud", PictogramRules, "CloudServices", DefaultPictogramCategory, "Cloud & Data"},
		{"pictogram fallback", PictogramRules, "Pyramid", DefaultPictogramCategory, "General"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rules.Categorize(tt.input, tt.fallback))
		})
	}
}

func TestScan_Metadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "@carbon", "icons", "metadata.json"),
		`{"icons":[{"name":"Add","category":"Operations","size":16},{"name":"Bee"},{"name":""}]}`)
	writeFile(t, filepath.Join(root, "@carbon", "pictograms", "metadata.json"),
		`{"pictograms":[{"name":"Cloud","category":"Cloud"}]}`)

	res, err := NewScanner(root, zaptest.NewLogger(t)).Scan()
	require.NoError(t, err)

	assert.Equal(t, OriginMetadata, res.IconOrigin)
	require.Len(t, res.Icons, 2)
	size := 16
	assert.Equal(t, catalog.Icon{Name: "Add", ImportPath: "@carbon/icons-react/Add", Category: "Operations", Size: &size}, res.Icons[0])
	assert.Equal(t, "Bee", res.Icons[1].Name)
	assert.Nil(t, res.Icons[1].Size)

	assert.Equal(t, OriginMetadata, res.PictogramOrigin)
	assert.Equal(t, []catalog.Pictogram{{Name: "Cloud", ImportPath: "@carbon/pictograms-react/Cloud", Category: "Cloud"}}, res.Pictograms)
}

func TestScan_FallbackGlob(t *testing.T) {
	root := t.TempDir()
	lib := filepath.Join(root, "@carbon", "icons-react", "lib")
	writeFile(t, filepath.Join(lib, "index.js"), "")
	writeFile(t, filepath.Join(lib, "16", "TrashCan.js"), "")
	writeFile(t, filepath.Join(lib, "32", "TrashCan.js"), "")
	writeFile(t, filepath.Join(lib, "16", "ArrowRight.js"), "")
	writeFile(t, filepath.Join(lib, "Bee.js"), "")
	writeFile(t, filepath.Join(lib, "Bee.d.ts"), "")

	// Malformed metadata falls back to scanning.
	writeFile(t, filepath.Join(root, "@carbon", "icons", "metadata.json"), "{")

	res, err := NewScanner(root, nil).Scan()
	require.NoError(t, err)

	assert.Equal(t, OriginScan, res.IconOrigin)
	assert.Equal(t, []catalog.Icon{
		{Name: "ArrowRight", ImportPath: "@carbon/icons-react/ArrowRight", Category: "Navigation"},
		{Name: "Bee", ImportPath: "@carbon/icons-react/Bee", Category: "Other"},
		{Name: "TrashCan", ImportPath: "@carbon/icons-react/TrashCan", Category: "Actions"},
	}, res.Icons)

	assert.Equal(t, OriginNone, res.PictogramOrigin)
	assert.Empty(t, res.Pictograms)
	assert.NotNil(t, res.Pictograms)
}

func TestScan_PictogramFallback(t *testing.T) {
	root := t.TempDir()
	lib := filepath.Join(root, "@carbon", "pictograms-react", "lib")
	writeFile(t, filepath.Join(lib, "Robot.js"), "")
	writeFile(t, filepath.Join(lib, "Pyramid.js"), "")

	pictograms, origin, err := NewScanner(root, nil).Pictograms()
	require.NoError(t, err)
	assert.Equal(t, OriginScan, origin)
	assert.Equal(t, []catalog.Pictogram{
		{Name: "Pyramid", ImportPath: "@carbon/pictograms-react/Pyramid", Category: "General"},
		{Name: "Robot", ImportPath: "@carbon/pictograms-react/Robot", Category: "AI & Technology"},
	}, pictograms)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := NewScanner(filepath.Join(t.TempDir(), "node_modules"), nil).Scan()
	assert.Error(t, err)
}
