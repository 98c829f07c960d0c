package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cecomcrede1/enturmacao/internal/config"
	apperrors "github.com/cecomcrede1/enturmacao/internal/errors"
)

// Manager writes generated report artifacts into the output directory
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger.With(slog.String("component", "files"))}
}

// WriteArtifact stores data under name in the output directory. The file is
// written to a temporary sibling and renamed into place, so readers never
// observe a partial workbook. It returns the final path.
func (m *Manager) WriteArtifact(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", apperrors.NewValidationError(fmt.Sprintf("invalid artifact name %q", name), nil)
	}

	fullPath := m.paths.GetOutputPath(name)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err).WithContext("dir", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", apperrors.NewStorageError("failed to create temporary file", err).WithContext("dir", dir)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return "", apperrors.NewStorageError("failed to write artifact", err).WithContext("path", fullPath)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", apperrors.NewStorageError("failed to sync artifact", err).WithContext("path", fullPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", apperrors.NewStorageError("failed to close artifact", err).WithContext("path", fullPath)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return "", apperrors.NewStorageError("failed to set artifact permissions", err).WithContext("path", fullPath)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", apperrors.NewStorageError("failed to move artifact into place", err).WithContext("path", fullPath)
	}

	m.logger.Info("Artifact written",
		slog.String("path", fullPath),
		slog.Int("size_bytes", len(data)))

	return fullPath, nil
}
