// Package config provides centralized configuration management for the SIGE
// enrollment report tools. It handles loading configuration from multiple
// sources, validation, and path resolution.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SIGE_* for namespacing:
//
//	SIGE_LOGGING_LEVEL=debug
//	SIGE_PATHS_REPORT_CSV=/data/Relatorio_SIGE_Corrigido.csv
//	SIGE_EXTRACTION_COMMAND=python3,enturmacao.py
//	SIGE_EXTRACTION_TIMEOUT=10m
//	SIGE_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Configuration File
//
// The file is taken from the --config flag, then SIGE_CONFIG_FILE, then the
// first of sige.yaml and configs/sige.yaml that exists:
//
//	paths:
//	  project_dir: /srv/sige
//	  output_dir: relatorios
//	extraction:
//	  command: ["python3", "enturmacao.py"]
//	  timeout: 10m
//
// # Validation
//
// The merged configuration is validated with go-playground/validator struct
// tags before it is returned.
package config
