package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cecomcrede1/enturmacao/internal/dataprocessing"
	apperrors "github.com/cecomcrede1/enturmacao/internal/errors"
	"github.com/cecomcrede1/enturmacao/internal/exporter"
	"github.com/cecomcrede1/enturmacao/internal/extraction"
	"github.com/cecomcrede1/enturmacao/internal/files"
	"github.com/cecomcrede1/enturmacao/internal/infrastructure"
	"github.com/cecomcrede1/enturmacao/pkg/contracts/domain"
)

const noDataMessage = "Nenhum dado carregado. Execute `sigereport extract` ou coloque o arquivo %s na pasta do projeto."

type exportFlags struct {
	municipio   string
	etapas      []string
	statuses    []string
	byMunicipio bool
}

func (f *exportFlags) selection() dataprocessing.Selection {
	return dataprocessing.Selection{
		Municipio: f.municipio,
		Etapas:    f.etapas,
		Statuses:  f.statuses,
	}
}

func newExportCmd(g *globalFlags) *cobra.Command {
	f := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered report as an Excel workbook",
		Long: `Load the report, apply the selection and write the workbook into the output
directory. With all municipalities selected, --by-municipio also writes a zip
holding one workbook per municipality.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, g, "export", func(ctx context.Context, a *app) error {
				return a.export(ctx, cmd.OutOrStdout(), f.selection(), f.byMunicipio)
			})
		},
	}

	cmd.Flags().StringVar(&f.municipio, "municipio", dataprocessing.AllMunicipalities, "municipality to export")
	cmd.Flags().StringArrayVar(&f.etapas, "etapa", nil, "teaching stage to keep (repeatable)")
	cmd.Flags().StringArrayVar(&f.statuses, "status", nil, "status to keep (repeatable)")
	cmd.Flags().BoolVar(&f.byMunicipio, "by-municipio", false, "also write one workbook per municipality, zipped")
	return cmd
}

func newOptionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the available filter values as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, g, "options", func(ctx context.Context, a *app) error {
				return a.options(ctx, cmd.OutOrStdout())
			})
		},
	}
}

func newExtractCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Run the download script that refreshes the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, g, "extract", func(ctx context.Context, a *app) error {
				return a.extract(ctx, cmd.OutOrStdout())
			})
		},
	}
}

// loadReport reads the report and derives the Etapa column. An absent or
// empty report is a NOT_FOUND error.
func (a *app) loadReport(ctx context.Context) (*domain.Table, error) {
	loader := dataprocessing.NewLoader(
		dataprocessing.WithLoaderLogger(a.logger),
		dataprocessing.WithLoaderMetrics(a.metrics),
	)

	table, ok := loader.Load(ctx, a.paths.ReportCSV)
	if !ok || table.Len() == 0 {
		a.logger.WarnContext(ctx, "No report data loaded", slog.String("path", a.paths.ReportCSV))
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf(noDataMessage, filepath.Base(a.paths.ReportCSV)), nil).
			WithContext("path", a.paths.ReportCSV)
	}
	return dataprocessing.WithStage(table), nil
}

func (a *app) export(ctx context.Context, out io.Writer, sel dataprocessing.Selection, byMunicipio bool) error {
	table, err := a.loadReport(ctx)
	if err != nil {
		return err
	}

	_, span := infrastructure.StartSpan(ctx, "dataprocessing.Apply")
	filtered := dataprocessing.Apply(table, sel).Drop(domain.ColumnSecretaria)
	span.SetAttributes(attribute.Int("rows", filtered.Len()))
	span.End()

	if filtered.Len() == 0 {
		a.logger.WarnContext(ctx, "Selection matched no rows", slog.Any("selection", sel))
	}

	filters := dataprocessing.Describe(sel)
	exp := exporter.NewWorkbookExporter(
		exporter.WithMaxColumnWidth(a.cfg.Export.MaxColumnWidth),
		exporter.WithExtractionTimestamp(files.ReadExtractionMarker(a.paths.MarkerFile)),
		exporter.WithLogger(a.logger),
		exporter.WithMetrics(a.metrics),
	)
	if err := a.paths.EnsureDirectories(); err != nil {
		return apperrors.NewStorageError("failed to prepare output directories", err)
	}
	manager := files.NewManager(a.paths, a.logger)
	now := time.Now()

	data, err := exp.Export(ctx, filtered, filters)
	if err != nil {
		return err
	}
	path, err := manager.WriteArtifact(exporter.FileName(sel, now), data)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)

	if !byMunicipio {
		return nil
	}
	if !sel.AllMunicipios() {
		a.logger.WarnContext(ctx, "Per-municipality archive skipped for a single municipality",
			slog.String("municipio", sel.Municipio))
		return nil
	}

	archive, err := exp.ExportByGroup(ctx, filtered, filters)
	if err != nil {
		return err
	}
	path, err = manager.WriteArtifact(exporter.ArchiveFileName(now), archive)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	return nil
}

// optionsOutput is the JSON printed by the options command
type optionsOutput struct {
	dataprocessing.FilterOptions
	Rows        int    `json:"rows"`
	ExtractedAt string `json:"extracted_at"`
}

func (a *app) options(ctx context.Context, out io.Writer) error {
	table, err := a.loadReport(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(optionsOutput{
		FilterOptions: dataprocessing.Options(table),
		Rows:          table.Len(),
		ExtractedAt:   files.ExtractionTimestamp(a.paths.MarkerFile, a.paths.ReportCSV),
	})
}

func (a *app) extract(ctx context.Context, out io.Writer) error {
	runner := extraction.NewRunner(a.cfg.Extraction, a.paths.ProjectDir,
		extraction.WithLogger(a.logger),
		extraction.WithMetrics(a.metrics),
	)

	res := runner.Run(ctx)
	if !res.Success {
		return apperrors.NewExtractionError(res.Message, nil).WithContext("outcome", res.Outcome)
	}
	fmt.Fprintln(out, res.Message)
	return nil
}
