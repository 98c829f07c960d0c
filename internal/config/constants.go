package config

import "time"

// Application constants
const (
	// Application Info
	AppName   = "SIGE Enturmação"
	ServiceID = "sige-enturmacao"

	// EnvPrefix namespaces every environment variable (SIGE_LOGGING_LEVEL, ...)
	EnvPrefix = "SIGE"

	// ConfigFileEnv points at an explicit YAML configuration file
	ConfigFileEnv = "SIGE_CONFIG_FILE"

	// File Paths (relative to the project directory)
	DefaultReportCSV  = "Relatorio_SIGE_Corrigido.csv"
	DefaultMarkerFile = "ultima_extracao.txt"
	DefaultOutputDir  = "relatorios"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "sigereport.log"

	// Extraction process
	DefaultExtractionScript  = "enturmacao.py"
	DefaultExtractionTimeout = 10 * time.Minute

	// Workbook layout
	DefaultMaxColumnWidth = 40.0

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"

	// Telemetry
	DefaultTraceExporter = "none"
)
