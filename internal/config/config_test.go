package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv makes sure no SIGE_* variable from the host leaks into a test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		ConfigFileEnv,
		"SIGE_LOGGING_LEVEL", "SIGE_LOGGING_FORMAT", "SIGE_LOGGING_OUTPUT", "SIGE_LOGGING_FILE_PATH",
		"SIGE_PATHS_PROJECT_DIR", "SIGE_PATHS_REPORT_CSV", "SIGE_PATHS_MARKER_FILE", "SIGE_PATHS_OUTPUT_DIR",
		"SIGE_EXPORT_MAX_COLUMN_WIDTH",
		"SIGE_EXTRACTION_COMMAND", "SIGE_EXTRACTION_TIMEOUT",
		"SIGE_TELEMETRY_TRACE_EXPORTER", "SIGE_TELEMETRY_METRICS_TEXTFILE",
	} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sige.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, DefaultReportCSV, cfg.Paths.ReportCSV)
				assert.Equal(t, DefaultMarkerFile, cfg.Paths.MarkerFile)
				assert.Equal(t, DefaultOutputDir, cfg.Paths.OutputDir)
				assert.Equal(t, 40.0, cfg.Export.MaxColumnWidth)
				assert.Equal(t, []string{"python3", "enturmacao.py"}, cfg.Extraction.Command)
				assert.Equal(t, 10*time.Minute, cfg.Extraction.Timeout)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"SIGE_LOGGING_LEVEL":            "debug",
				"SIGE_LOGGING_FORMAT":           "text",
				"SIGE_PATHS_REPORT_CSV":         "/data/relatorio.csv",
				"SIGE_EXTRACTION_COMMAND":       "/usr/bin/python3,-u,enturmacao.py",
				"SIGE_EXTRACTION_TIMEOUT":       "90s",
				"SIGE_TELEMETRY_TRACE_EXPORTER": "stdout",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format, "format is always forced to json")
				assert.Equal(t, "/data/relatorio.csv", cfg.Paths.ReportCSV)
				assert.Equal(t, []string{"/usr/bin/python3", "-u", "enturmacao.py"}, cfg.Extraction.Command)
				assert.Equal(t, 90*time.Second, cfg.Extraction.Timeout)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "config file with environment override",
			env: map[string]string{
				"SIGE_LOGGING_LEVEL": "warn",
			},
			file: `
logging:
  level: error
paths:
  output_dir: saida
extraction:
  command: ["python", "baixar.py"]
  timeout: 5m
export:
  max_column_width: 60
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level) // from env
				assert.Equal(t, "saida", cfg.Paths.OutputDir)
				assert.Equal(t, DefaultReportCSV, cfg.Paths.ReportCSV, "defaults survive a partial file")
				assert.Equal(t, []string{"python", "baixar.py"}, cfg.Extraction.Command)
				assert.Equal(t, 5*time.Minute, cfg.Extraction.Timeout)
				assert.Equal(t, 60.0, cfg.Export.MaxColumnWidth)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"SIGE_LOGGING_LEVEL": "verbose"},
			wantErr: true,
		},
		{
			name:    "invalid trace exporter",
			env:     map[string]string{"SIGE_TELEMETRY_TRACE_EXPORTER": "otlp"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"SIGE_EXTRACTION_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "unparseable timeout",
			env:     map[string]string{"SIGE_EXTRACTION_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "malformed config file",
			file:    "logging: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var configFile string
			if tt.file != "" {
				configFile = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "paths:\n  marker_file: marcador.txt\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "marcador.txt", cfg.Paths.MarkerFile)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "empty extraction command", mutate: func(c *Config) { c.Extraction.Command = nil }, wantErr: true},
		{name: "blank command element", mutate: func(c *Config) { c.Extraction.Command = []string{""} }, wantErr: true},
		{name: "zero column width", mutate: func(c *Config) { c.Export.MaxColumnWidth = 0 }, wantErr: true},
		{name: "missing report csv", mutate: func(c *Config) { c.Paths.ReportCSV = "" }, wantErr: true},
		{name: "file output needs a path", mutate: func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, wantErr: true},
		{name: "console output without path", mutate: func(c *Config) { c.Logging.FilePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
