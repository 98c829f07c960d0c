package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "sige"

// Workbook kinds used as the "kind" label
const (
	KindConsolidated = "consolidated"
	KindGroup        = "group"
	KindArchive      = "archive"
)

// Metrics holds the counters collected during a single CLI run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RowsLoaded     prometheus.Counter
	RowsExported   prometheus.Counter
	Workbooks      *prometheus.CounterVec
	ExtractionRuns *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec
}

// NewMetrics creates the run metrics on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_loaded_total",
			Help:      "Rows read from the enrollment report.",
		}),
		RowsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_exported_total",
			Help:      "Rows written to report workbooks.",
		}),
		Workbooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "workbooks_generated_total",
			Help:      "Artifacts generated, by kind.",
		}, []string{"kind"}),
		ExtractionRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "extraction_runs_total",
			Help:      "Extraction script runs, by outcome.",
		}, []string{"outcome"}),
		ExportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "export_duration_seconds",
			Help:      "Time spent building export artifacts.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 6),
		}, []string{"kind"}),
	}

	m.registry.MustRegister(m.RowsLoaded, m.RowsExported, m.Workbooks, m.ExtractionRuns, m.ExportDuration)
	return m
}

// Registry exposes the underlying registry for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// AddRowsLoaded counts rows read by the loader
func (m *Metrics) AddRowsLoaded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsLoaded.Add(float64(n))
}

// ObserveExport records one generated artifact of the given kind
func (m *Metrics) ObserveExport(kind string, rows int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Workbooks.WithLabelValues(kind).Inc()
	if rows > 0 {
		m.RowsExported.Add(float64(rows))
	}
	m.ExportDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveExtraction counts an extraction run by outcome
func (m *Metrics) ObserveExtraction(outcome string) {
	if m == nil {
		return
	}
	m.ExtractionRuns.WithLabelValues(outcome).Inc()
}

// WriteTextfile dumps the registry in the node exporter textfile format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
