// Package exporter renders enrollment tables as styled xlsx workbooks.
//
// This package contains two main components:
//
// WorkbookExporter.Export: builds a consolidated workbook with an
// "Informações" sheet (title, data freshness, generation time and applied
// filters) followed by a "Relatório" sheet holding the table. Rows are
// highlighted by Status: Atenção in yellow, Crítica in red.
//
// WorkbookExporter.ExportByGroup: builds one workbook per municipality and
// bundles them into a zip archive.
//
// Example usage:
//
//	exp := exporter.NewWorkbookExporter(
//		exporter.WithExtractionTimestamp(files.ReadExtractionMarker(marker)),
//	)
//
//	data, err := exp.Export(ctx, table.Drop(domain.ColumnSecretaria), filters)
//
//	archive, err := exp.ExportByGroup(ctx, table.Drop(domain.ColumnSecretaria), filters)
//
// Everything is built in memory; writing the result is left to the caller.
package exporter
