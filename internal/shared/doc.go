// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides LogRecorder, an in-memory slog.Handler
// for asserting on what a component logged:
//
//	logger, rec := testutil.NewLogRecorder(slog.LevelDebug)
//	runner := extraction.NewRunner(cfg, dir, extraction.WithLogger(logger))
//	runner.Run(ctx)
//	r, ok := rec.Find(slog.LevelError, "Extraction failed")
//
// It must only contain code without domain logic.
package shared
