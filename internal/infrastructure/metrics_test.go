package infrastructure

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.AddRowsLoaded(12)
	m.AddRowsLoaded(0)
	m.ObserveExport(KindConsolidated, 5, 20*time.Millisecond)
	m.ObserveExport(KindGroup, 3, time.Millisecond)
	m.ObserveExport(KindGroup, 2, time.Millisecond)
	m.ObserveExport(KindArchive, 0, time.Millisecond)
	m.ObserveExtraction("success")

	assert.Equal(t, 12.0, testutil.ToFloat64(m.RowsLoaded))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.RowsExported))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Workbooks.WithLabelValues(KindConsolidated)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Workbooks.WithLabelValues(KindGroup)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Workbooks.WithLabelValues(KindArchive)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionRuns.WithLabelValues("success")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.ExportDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	m.AddRowsLoaded(3)
	m.ObserveExport(KindConsolidated, 1, time.Second)
	m.ObserveExtraction("timeout")
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.AddRowsLoaded(7)

	path := filepath.Join(t.TempDir(), "textfile", "sige.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "sige_rows_loaded_total 7")

	assert.NoError(t, m.WriteTextfile(""))
}
