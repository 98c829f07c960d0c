// Package files handles the file system side of report generation.
//
// This package contains two main components:
//
// Manager: writes generated workbooks and archives into the configured
// output directory. Writes are atomic (temporary file plus rename).
//
// Extraction marker: ReadExtractionMarker and ExtractionTimestamp report when
// the data was last downloaded, from the marker file the extraction script
// leaves next to the report, falling back to the report's modification time.
//
// Example usage:
//
//	manager := files.NewManager(paths, logger)
//	path, err := manager.WriteArtifact(exporter.FileName(sel, time.Now()), data)
//
//	freshness := files.ExtractionTimestamp(paths.MarkerFile, paths.ReportCSV)
package files
