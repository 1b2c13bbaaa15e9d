package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

func TestNew_UsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.ObserveToolCall("carbon.list", "ok", 2*time.Millisecond)
	m.ObserveLoad(catalog.LoadStats{Components: 3, TokensLoaded: true}, 10*time.Millisecond, nil)

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "carbonmcp_tool_calls_total")
	assert.Contains(t, names, "carbonmcp_tool_duration_seconds")
	assert.Contains(t, names, "carbonmcp_catalog_entries")
	assert.Contains(t, names, "carbonmcp_tokens_loaded")
	assert.Contains(t, names, "carbonmcp_catalog_loads_total")
	assert.Contains(t, names, "carbonmcp_catalog_load_duration_seconds")
}

func TestObserveToolCall_CountsByStatus(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveToolCall("carbon.get", "ok", time.Millisecond)
	m.ObserveToolCall("carbon.get", "ok", time.Millisecond)
	m.ObserveToolCall("carbon.get", "tool_error", time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.toolCalls.WithLabelValues("carbon.get", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.toolCalls.WithLabelValues("carbon.get", "tool_error")))
}

func TestObserveLoad(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveLoad(catalog.LoadStats{Components: 5, Icons: 7, Pictograms: 2, TokensLoaded: true}, time.Millisecond, nil)
	m.ObserveLoad(catalog.LoadStats{Components: 5, Icons: 7, Pictograms: 2, TokensLoaded: true}, time.Millisecond, errors.New("bad"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.loads.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.loads.WithLabelValues("error")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.catalogSize.WithLabelValues(CollectionComponents)))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.catalogSize.WithLabelValues(CollectionIcons)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.tokensLoaded))

	m.SetCatalogStats(catalog.LoadStats{})
	assert.Equal(t, float64(0), testutil.ToFloat64(m.tokensLoaded))
}

func TestHandler_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	m.ObserveToolCall("carbon.suggest", "ok", time.Millisecond)

	srv := httptest.NewServer(Handler(HTTPServerOptions{Registry: registry}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Healthz(t *testing.T) {
	store := catalog.NewStore()
	comps := []catalog.Component{{Name: "Button"}}
	store.Apply(catalog.Update{Components: &comps})

	srv := httptest.NewServer(Handler(HTTPServerOptions{Registry: prometheus.NewRegistry(), Store: store}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var report HealthReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, uint64(1), report.Generation)
	assert.Equal(t, 1, report.Stats.Components)
}

func TestStartHTTPServer_NoAddr(t *testing.T) {
	assert.NoError(t, StartHTTPServer(context.Background(), HTTPServerOptions{}, nil))
}

func TestStartHTTPServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- StartHTTPServer(ctx, HTTPServerOptions{Addr: "127.0.0.1:0", Registry: prometheus.NewRegistry()}, nil)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
