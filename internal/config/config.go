package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Export     ExportConfig     `yaml:"export" envconfig:"EXPORT"`
	Extraction ExtractionConfig `yaml:"extraction" envconfig:"EXTRACTION"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"eq=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	// FilePath is resolved inside Paths.LogsDir when relative
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration.
// Relative paths are resolved against ProjectDir.
type PathsConfig struct {
	ProjectDir string `yaml:"project_dir" envconfig:"PROJECT_DIR"`
	ReportCSV  string `yaml:"report_csv" envconfig:"REPORT_CSV" validate:"required"`
	MarkerFile string `yaml:"marker_file" envconfig:"MARKER_FILE" validate:"required"`
	OutputDir  string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ExportConfig contains workbook generation settings
type ExportConfig struct {
	MaxColumnWidth float64 `yaml:"max_column_width" envconfig:"MAX_COLUMN_WIDTH" validate:"gt=0"`
}

// ExtractionConfig describes the external process that refreshes the report CSV
type ExtractionConfig struct {
	Command []string      `yaml:"command" envconfig:"COMMAND" validate:"min=1,dive,required"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// TelemetryConfig contains tracing and metrics output settings
type TelemetryConfig struct {
	TraceExporter   string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty configFile falls
// back to SIGE_CONFIG_FILE and then to the well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are actually set override file values
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct rules
func (c *Config) Validate() error {
	// Always use JSON format
	c.Logging.Format = DefaultLogFormat
	return validator.New().Struct(c)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if env := os.Getenv(ConfigFileEnv); env != "" {
		return env
	}

	locations := []string{
		"sige.yaml",
		"configs/sige.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			ProjectDir: ".",
			ReportCSV:  DefaultReportCSV,
			MarkerFile: DefaultMarkerFile,
			OutputDir:  DefaultOutputDir,
			LogsDir:    DefaultLogsDir,
		},
		Export: ExportConfig{
			MaxColumnWidth: DefaultMaxColumnWidth,
		},
		Extraction: ExtractionConfig{
			Command: []string{"python3", DefaultExtractionScript},
			Timeout: DefaultExtractionTimeout,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: DefaultTraceExporter,
		},
	}
}
