package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved application paths.
// This is the single source of truth for file locations used by the CLI.
type Paths struct {
	ProjectDir string
	ReportCSV  string
	MarkerFile string
	OutputDir  string
	LogsDir    string
}

// ResolvePaths turns the configured paths into absolute ones
func (c *Config) ResolvePaths() (*Paths, error) {
	projectDir := c.Paths.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(projectDir, p)
	}

	return &Paths{
		ProjectDir: projectDir,
		ReportCSV:  resolve(c.Paths.ReportCSV),
		MarkerFile: resolve(c.Paths.MarkerFile),
		OutputDir:  resolve(c.Paths.OutputDir),
		LogsDir:    resolve(c.Paths.LogsDir),
	}, nil
}

// EnsureDirectories creates the directories the CLI writes into
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetOutputPath returns the path of an artifact in the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the path of a file in the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved application paths",
		slog.String("project_dir", p.ProjectDir),
		slog.String("report_csv", p.ReportCSV),
		slog.String("marker_file", p.MarkerFile),
		slog.String("output_dir", p.OutputDir),
		slog.String("logs_dir", p.LogsDir))
}
