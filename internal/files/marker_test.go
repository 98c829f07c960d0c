package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadExtractionMarker(t *testing.T) {
	dir := t.TempDir()

	marker := filepath.Join(dir, "ultima_extracao.txt")
	require.NoError(t, os.WriteFile(marker, []byte("  13/10/2026 22:15\n"), 0644))

	assert.Equal(t, "13/10/2026 22:15", ReadExtractionMarker(marker))
	assert.Empty(t, ReadExtractionMarker(filepath.Join(dir, "missing.txt")))
	assert.Empty(t, ReadExtractionMarker(dir), "directories are unreadable as markers")
	assert.Empty(t, ReadExtractionMarker(""))
}

func TestExtractionTimestamp(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "Relatorio_SIGE_Corrigido.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("x"), 0644))

	mtime := time.Date(2026, 10, 12, 8, 45, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(csvPath, mtime, mtime))

	marker := filepath.Join(dir, "ultima_extracao.txt")

	t.Run("falls back to csv modification time", func(t *testing.T) {
		assert.Equal(t, "12/10/2026 08:45", ExtractionTimestamp(marker, csvPath))
	})

	t.Run("marker wins", func(t *testing.T) {
		require.NoError(t, os.WriteFile(marker, []byte("13/10/2026 22:15"), 0644))
		assert.Equal(t, "13/10/2026 22:15", ExtractionTimestamp(marker, csvPath))
	})

	t.Run("nothing available", func(t *testing.T) {
		assert.Empty(t, ExtractionTimestamp(filepath.Join(dir, "none.txt"), filepath.Join(dir, "none.csv")))
		assert.Empty(t, ExtractionTimestamp("", ""))
	})
}
