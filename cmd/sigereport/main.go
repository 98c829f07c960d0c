package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cecomcrede1/enturmacao/internal/config"
	apperrors "github.com/cecomcrede1/enturmacao/internal/errors"
	"github.com/cecomcrede1/enturmacao/internal/infrastructure"
	"github.com/cecomcrede1/enturmacao/pkg/contracts"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	csvPath    string
	markerPath string
	outDir     string
}

// app bundles what a subcommand needs for one invocation
type app struct {
	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	tracing *infrastructure.TracingProviders
	metrics *infrastructure.Metrics
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "sigereport",
		Short: "SIGE enrollment report (Mapa de Enturmação) exporter",
		Long: `sigereport reads the SIGE enrollment report CSV, derives the teaching stage
of every row and exports the filtered table as styled Excel workbooks.`,
		Version:      contracts.GetFullVersionString(),
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "YAML configuration file (default: $SIGE_CONFIG_FILE, sige.yaml or configs/sige.yaml)")
	pf.StringVar(&flags.csvPath, "csv", "", "report CSV path (overrides paths.report_csv)")
	pf.StringVar(&flags.markerPath, "marker", "", "extraction marker file (overrides paths.marker_file)")
	pf.StringVar(&flags.outDir, "out", "", "output directory for generated files (overrides paths.output_dir)")

	root.AddCommand(
		newExportCmd(flags),
		newOptionsCmd(flags),
		newExtractCmd(flags),
	)
	return root
}

// run sets up the application for a subcommand, executes fn inside a traced
// context and flushes telemetry afterwards
func run(cmd *cobra.Command, flags *globalFlags, name string, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := infrastructure.EnsureTraceID(cmd.Context())
	ctx, span := infrastructure.StartSpan(ctx, "sigereport."+name)

	a.logger.DebugContext(ctx, "Command started", slog.String("command", name))
	err = fn(ctx, a)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		a.logger.ErrorContext(ctx, "Command failed",
			slog.String("command", name),
			slog.String("otel_trace_id", infrastructure.TraceIDFromContext(ctx)),
			slog.String("error", err.Error()))
	}
	span.End()

	a.close(context.WithoutCancel(ctx))
	return err
}

// newApp loads the configuration, applies flag overrides and initializes the
// logger, tracing and metrics
func newApp(flags *globalFlags, traceOut io.Writer) (*app, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}
	if err := applyOverrides(cfg, flags); err != nil {
		return nil, apperrors.NewConfigError("invalid path flag", err)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}
	if p := cfg.Logging.FilePath; p != "" && !filepath.IsAbs(p) {
		cfg.Logging.FilePath = paths.GetLogPath(p)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	paths.LogPathResolution(logger)

	tracing, err := infrastructure.InitializeTracing(cfg.Telemetry, traceOut, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		paths:   paths,
		logger:  logger,
		tracing: tracing,
		metrics: infrastructure.NewMetrics(),
	}, nil
}

// applyOverrides replaces configured paths with the ones given on the
// command line. Flag paths are relative to the working directory.
func applyOverrides(cfg *config.Config, flags *globalFlags) error {
	overrides := []struct {
		flag   string
		target *string
	}{
		{flags.csvPath, &cfg.Paths.ReportCSV},
		{flags.markerPath, &cfg.Paths.MarkerFile},
		{flags.outDir, &cfg.Paths.OutputDir},
	}
	for _, o := range overrides {
		if o.flag == "" {
			continue
		}
		abs, err := filepath.Abs(o.flag)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", o.flag, err)
		}
		*o.target = abs
	}
	return nil
}

func (a *app) close(ctx context.Context) {
	if err := a.tracing.Shutdown(ctx); err != nil {
		a.logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
	}
	if err := a.metrics.WriteTextfile(a.cfg.Telemetry.MetricsTextfile); err != nil {
		a.logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		a.logger.Warn("Failed to close log file", slog.String("error", err.Error()))
	}
}
