package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cecomcrede1/enturmacao/internal/config"
	apperrors "github.com/cecomcrede1/enturmacao/internal/errors"
	"github.com/cecomcrede1/enturmacao/internal/infrastructure"
	"github.com/cecomcrede1/enturmacao/pkg/contracts/domain"
)

// Sheet names, in workbook order
const (
	InfoSheet   = "Informações"
	ReportSheet = "Relatório"
)

// Information sheet contents
const (
	DefaultTitle          = "Relatório SIGE - Mapa de Enturmação"
	GroupTitlePrefix      = "Relatório SIGE - "
	ExtractionLabel       = "Data de Extração dos Dados:"
	ExtractionPlaceholder = "Não informada"
	GeneratedLabel        = "Data do Relatório:"
	FiltersLabel          = "Filtros Aplicados:"
	FilterBullet          = "• "

	// GeneratedLayout formats the generation time, e.g. "14/10/2026 às 09:30"
	GeneratedLayout = "02/01/2006 às 15:04"
)

// Fill colours
const (
	HeaderFill   = "1E3A5F"
	HeaderFont   = "FFFFFF"
	WarningFill  = "FFFF00"
	CriticalFill = "FF6B6B"
)

// StatusFill returns the solid row fill for a status value. Statuses other
// than Atenção and Crítica are not highlighted.
func StatusFill(status string) (string, bool) {
	switch status {
	case domain.StatusAtencao:
		return WarningFill, true
	case domain.StatusCritica:
		return CriticalFill, true
	default:
		return "", false
	}
}

// WorkbookExporter renders tables as styled xlsx workbooks
type WorkbookExporter struct {
	clock          func() time.Time
	maxColumnWidth float64
	extractedAt    string
	logger         *slog.Logger
	metrics        *infrastructure.Metrics
}

// Option configures a WorkbookExporter
type Option func(*WorkbookExporter)

// WithClock sets the source of the generation time
func WithClock(clock func() time.Time) Option {
	return func(e *WorkbookExporter) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithMaxColumnWidth caps automatic column widths
func WithMaxColumnWidth(width float64) Option {
	return func(e *WorkbookExporter) {
		if width > 0 {
			e.maxColumnWidth = width
		}
	}
}

// WithExtractionTimestamp sets the data freshness shown on the information
// sheet. An empty value shows the placeholder.
func WithExtractionTimestamp(ts string) Option {
	return func(e *WorkbookExporter) {
		e.extractedAt = ts
	}
}

// WithLogger sets the exporter logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *WorkbookExporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records generated artifacts into m
func WithMetrics(m *infrastructure.Metrics) Option {
	return func(e *WorkbookExporter) {
		e.metrics = m
	}
}

// NewWorkbookExporter creates an exporter
func NewWorkbookExporter(opts ...Option) *WorkbookExporter {
	e := &WorkbookExporter{
		clock:          time.Now,
		maxColumnWidth: config.DefaultMaxColumnWidth,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = infrastructure.WithComponent(e.logger, "exporter")
	return e
}

// Export renders t as a single consolidated workbook. filters are the
// human-readable descriptions of the selection that produced t.
func (e *WorkbookExporter) Export(ctx context.Context, t *domain.Table, filters []string) ([]byte, error) {
	ctx, span := infrastructure.StartSpan(ctx, "exporter.Export", attribute.Int("rows", t.Len()))
	defer span.End()

	start := time.Now()
	data, err := e.render(DefaultTitle, t, filters)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	e.metrics.ObserveExport(infrastructure.KindConsolidated, t.Len(), time.Since(start))
	e.logger.InfoContext(ctx, "workbook generated",
		slog.Int("rows", t.Len()),
		slog.Int("bytes", len(data)))

	return data, nil
}

// render builds a complete workbook in memory
func (e *WorkbookExporter) render(title string, t *domain.Table, filters []string) ([]byte, error) {
	if t == nil {
		t = domain.NewTable()
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InfoSheet); err != nil {
		return nil, apperrors.NewExportError("failed to name information sheet", err)
	}
	if _, err := f.NewSheet(ReportSheet); err != nil {
		return nil, apperrors.NewExportError("failed to create report sheet", err)
	}

	if err := e.writeInfo(f, title, filters); err != nil {
		return nil, apperrors.NewExportError("failed to write information sheet", err)
	}
	if err := e.writeReport(f, t); err != nil {
		return nil, apperrors.NewExportError("failed to write report sheet", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewExportError("failed to serialize workbook", err)
	}
	return buf.Bytes(), nil
}

func (e *WorkbookExporter) writeInfo(f *excelize.File, title string, filters []string) error {
	extractedAt := e.extractedAt
	if extractedAt == "" {
		extractedAt = ExtractionPlaceholder
	}

	cells := []struct {
		cell  string
		value string
	}{
		{"A1", title},
		{"A3", ExtractionLabel},
		{"B3", extractedAt},
		{"A5", GeneratedLabel},
		{"B5", e.clock().Format(GeneratedLayout)},
	}
	for _, c := range cells {
		if err := f.SetCellValue(InfoSheet, c.cell, c.value); err != nil {
			return err
		}
	}

	if len(filters) == 0 {
		return nil
	}
	if err := f.SetCellValue(InfoSheet, "A7", FiltersLabel); err != nil {
		return err
	}
	for i, filter := range filters {
		if err := f.SetCellValue(InfoSheet, fmt.Sprintf("A%d", 8+i), FilterBullet+filter); err != nil {
			return err
		}
	}
	return nil
}

func (e *WorkbookExporter) writeReport(f *excelize.File, t *domain.Table) error {
	if len(t.Columns) == 0 {
		return nil
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: HeaderFont},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{HeaderFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	rowStyles := make(map[string]int)
	for _, status := range []string{domain.StatusAtencao, domain.StatusCritica} {
		color, _ := StatusFill(status)
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return fmt.Errorf("creating row style: %w", err)
		}
		rowStyles[status] = id
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return err
	}

	for j, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ReportSheet, cell, name); err != nil {
			return fmt.Errorf("setting header: %w", err)
		}
	}
	if err := f.SetCellStyle(ReportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("setting header style: %w", err)
	}

	for i, row := range t.Rows {
		rowNum := i + 2
		for j := range t.Columns {
			if j >= len(row) || row[j].IsEmpty() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(ReportSheet, cell, cellValue(row[j])); err != nil {
				return fmt.Errorf("setting cell value: %w", err)
			}
		}

		if fill, ok := rowStyles[t.Value(i, domain.ColumnStatus).String()]; ok {
			if err := f.SetCellStyle(ReportSheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("%s%d", lastCol, rowNum), fill); err != nil {
				return fmt.Errorf("setting row style: %w", err)
			}
		}
	}

	for j, width := range e.columnWidths(t) {
		colName, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(ReportSheet, colName, colName, width); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	return nil
}

// columnWidths sizes each column to its longest rendered value plus two,
// capped at the configured maximum
func (e *WorkbookExporter) columnWidths(t *domain.Table) []float64 {
	widths := make([]float64, len(t.Columns))
	for j, name := range t.Columns {
		longest := utf8.RuneCountInString(name)
		for _, row := range t.Rows {
			if j < len(row) {
				if n := utf8.RuneCountInString(row[j].String()); n > longest {
					longest = n
				}
			}
		}
		widths[j] = min(float64(longest+2), e.maxColumnWidth)
	}
	return widths
}

func cellValue(c domain.Cell) interface{} {
	if c.Kind == domain.CellCount {
		return c.Count
	}
	return c.Text
}
