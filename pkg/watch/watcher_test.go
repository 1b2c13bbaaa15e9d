package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh() (catalog.LoadStats, error) {
	c.calls.Add(1)
	return catalog.LoadStats{}, c.err
}

func startWatcher(t *testing.T, r Refresher, paths ...string) *Watcher {
	t.Helper()
	w, err := New(r, paths, Options{Debounce: 20 * time.Millisecond, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestWatcher_RefreshesOnSourceWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	r := &countingRefresher{}
	startWatcher(t, r, path)

	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Button"}]`), 0o644))

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icons.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	r := &countingRefresher{}
	w, err := New(r, []string{path}, Options{Debounce: 300 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.json")

	r := &countingRefresher{}
	startWatcher(t, r, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), r.calls.Load())
}

func TestWatcher_RefreshErrorKeepsRunning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokens.json")

	r := &countingRefresher{err: errors.New("bad json")}
	startWatcher(t, r, path)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	before := r.calls.Load()
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	assert.Eventually(t, func() bool { return r.calls.Load() > before }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := New(&countingRefresher{}, []string{filepath.Join(t.TempDir(), "x.json")}, Options{})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
	assert.Error(t, w.Start())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(&countingRefresher{}, []string{"/nonexistent/carbon/components.json"}, Options{})
	require.NoError(t, err)
	assert.Error(t, w.Start())
	assert.NoError(t, w.Stop())
}
