package files

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cecomcrede1/enturmacao/internal/config"
	apperrors "github.com/cecomcrede1/enturmacao/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	outDir := filepath.Join(t.TempDir(), "relatorios")
	return NewManager(&config.Paths{OutputDir: outDir}, nil), outDir
}

func TestNewManager(t *testing.T) {
	paths := &config.Paths{OutputDir: "/test/relatorios"}

	manager := NewManager(paths, nil)
	assert.NotNil(t, manager)
	assert.Equal(t, paths, manager.paths)
	assert.NotNil(t, manager.logger)
}

func TestWriteArtifact(t *testing.T) {
	manager, outDir := newTestManager(t)

	path, err := manager.WriteArtifact("Relatorio_SIGE_Todos_14102026_093000.xlsx", []byte("workbook"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "Relatorio_SIGE_Todos_14102026_093000.xlsx"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "workbook", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// Overwrite replaces the content and leaves no temporary files behind
	_, err = manager.WriteArtifact("Relatorio_SIGE_Todos_14102026_093000.xlsx", []byte("v2"))
	require.NoError(t, err)
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Relatorio_SIGE_Todos_14102026_093000.xlsx", entries[0].Name())
}

func TestWriteArtifact_InvalidName(t *testing.T) {
	manager, _ := newTestManager(t)

	for _, name := range []string{"", "../escape.xlsx", "sub/dir.xlsx"} {
		_, err := manager.WriteArtifact(name, []byte("x"))
		require.Error(t, err, name)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation), name)
	}
}

func TestWriteArtifact_UnwritableDirectory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	manager := NewManager(&config.Paths{OutputDir: filepath.Join(blocker, "out")}, nil)
	_, err := manager.WriteArtifact("a.xlsx", []byte("x"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

// Disable slog output during tests to reduce noise
func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})))
}
