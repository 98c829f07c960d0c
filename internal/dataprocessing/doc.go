// Package dataprocessing turns the SIGE enrollment report ("Mapa de
// Enturmação") into a normalized, filterable table.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Normalizer: coerces raw measure cells into non-negative counts
// 2. Stage extractor: derives the Etapa column from Descricao
// 3. Loader: reads the semicolon-delimited report from disk
// 4. Filter: applies a Selection of municipality, stage and status predicates
//
// # Usage
//
//	loader := dataprocessing.NewLoader(dataprocessing.WithLoaderLogger(logger))
//	table, ok := loader.Load(ctx, "Relatorio_SIGE_Corrigido.csv")
//	if !ok {
//	    // no data: missing or malformed report
//	}
//	table = dataprocessing.WithStage(table)
//	filtered := dataprocessing.Apply(table, dataprocessing.Selection{
//	    Municipio: "Fortaleza",
//	    Statuses:  []string{"Crítica"},
//	})
//
// # Data Flow
//
//	CSV → Loader → WithStage → Apply → exporter
//
// # Error Handling
//
// Nothing in this package fails hard. Unparseable counts become zero and a
// report that cannot be read is reported as "no data" by Load, with the
// reason logged at WARN level.
package dataprocessing
