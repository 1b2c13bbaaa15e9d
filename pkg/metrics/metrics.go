// Package metrics exposes Prometheus instrumentation for the catalog server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gnana997/carbonmcp/pkg/catalog"
)

// Collection label values for the catalog size gauge.
const (
	CollectionComponents = "components"
	CollectionIcons      = "icons"
	CollectionPictograms = "pictograms"
)

// Metrics records tool calls and catalog loads.
type Metrics struct {
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	catalogSize  *prometheus.GaugeVec
	tokensLoaded prometheus.Gauge
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
}

// New registers the catalog metrics on registerer. A nil registerer uses the
// Prometheus default registry.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carbonmcp_tool_calls_total",
				Help: "Total number of tool calls",
			},
			[]string{"tool", "status"},
		),
		toolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carbonmcp_tool_duration_seconds",
				Help:    "Duration of tool calls in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"tool"},
		),
		catalogSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "carbonmcp_catalog_entries",
				Help: "Number of entries in the active catalog snapshot",
			},
			[]string{"collection"},
		),
		tokensLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "carbonmcp_tokens_loaded",
				Help: "1 when design tokens are loaded, else 0",
			},
		),
		loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carbonmcp_catalog_loads_total",
				Help: "Total number of catalog load attempts",
			},
			[]string{"status"},
		),
		loadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "carbonmcp_catalog_load_duration_seconds",
				Help:    "Duration of catalog loads in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
	}
}

// ObserveToolCall records one tool call. status is one of the mcplog status
// values.
func (m *Metrics) ObserveToolCall(tool, status string, duration time.Duration) {
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// ObserveLoad records a load attempt and, on success, the new catalog sizes.
func (m *Metrics) ObserveLoad(stats catalog.LoadStats, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.loads.WithLabelValues(status).Inc()
	m.loadDuration.Observe(duration.Seconds())
	m.SetCatalogStats(stats)
}

// SetCatalogStats publishes the sizes of the active snapshot.
func (m *Metrics) SetCatalogStats(stats catalog.LoadStats) {
	m.catalogSize.WithLabelValues(CollectionComponents).Set(float64(stats.Components))
	m.catalogSize.WithLabelValues(CollectionIcons).Set(float64(stats.Icons))
	m.catalogSize.WithLabelValues(CollectionPictograms).Set(float64(stats.Pictograms))
	if stats.TokensLoaded {
		m.tokensLoaded.Set(1)
	} else {
		m.tokensLoaded.Set(0)
	}
}
