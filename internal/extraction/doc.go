// Package extraction runs the external download script that refreshes the
// enrollment report CSV.
//
// The script is an opaque command configured under extraction.command. It is
// started in the project directory and killed when extraction.timeout
// elapses. The outcome is reported as a Result with a user-facing message:
// stderr when the script wrote any, otherwise stdout, otherwise a generic
// failure text.
//
//	runner := extraction.NewRunner(cfg.Extraction, paths.ProjectDir,
//		extraction.WithLogger(logger), extraction.WithMetrics(metrics))
//	res := runner.Run(ctx)
//	if !res.Success {
//		fmt.Fprintln(os.Stderr, res.Message)
//	}
package extraction
