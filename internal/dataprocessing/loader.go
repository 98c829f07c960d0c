package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "github.com/cecomcrede1/enturmacao/internal/errors"
	"github.com/cecomcrede1/enturmacao/internal/infrastructure"
	"github.com/cecomcrede1/enturmacao/pkg/contracts/domain"
)

// ReportDelimiter separates fields in the SIGE report export
const ReportDelimiter = ';'

// Loader reads the enrollment report into a normalized table
type Loader struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithLoaderLogger sets the logger used for "no data" diagnostics
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLoaderMetrics counts loaded rows into m
func WithLoaderMetrics(m *infrastructure.Metrics) LoaderOption {
	return func(l *Loader) {
		l.metrics = m
	}
}

// NewLoader creates a Loader
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = infrastructure.WithComponent(l.logger, "loader")
	return l
}

// Load reads the report at path. It reports false when there is no usable
// data: the file is missing, unreadable or malformed. Failures are logged,
// never returned.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, bool) {
	ctx, span := infrastructure.StartSpan(ctx, "dataprocessing.Load", attribute.String("path", path))
	defer span.End()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.WarnContext(ctx, "report file not found", slog.String("path", path))
		} else {
			l.logger.WarnContext(ctx, "report file unreadable",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		infrastructure.RecordError(ctx, err)
		return nil, false
	}
	defer f.Close()

	table, err := l.Read(f)
	if err != nil {
		l.logger.WarnContext(ctx, "report file could not be parsed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		infrastructure.RecordError(ctx, err)
		return nil, false
	}

	span.SetAttributes(
		attribute.Int("rows", table.Len()),
		attribute.Int("columns", len(table.Columns)),
	)
	l.metrics.AddRowsLoaded(table.Len())
	l.logger.DebugContext(ctx, "report loaded",
		slog.String("path", path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)))

	return table, true
}

// Read parses a semicolon-delimited UTF-8 report, with or without a byte
// order mark. A quote inside an unquoted field is kept as a plain character. Measure columns present in the header are normalized to
// counts; the other cells are kept as text.
func (l *Loader) Read(r io.Reader) (*domain.Table, error) {
	decoded := transform.NewReader(r, transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.Comma = ReportDelimiter
	reader.FieldsPerRecord = -1
	// Descriptions may carry literal quotes, e.g. Escola "Padre Cicero"
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("report is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read report header", err)
	}

	table := domain.NewTable(header...)
	for _, col := range domain.RequiredColumns {
		if !table.Has(col) {
			return nil, apperrors.NewParsingError(fmt.Sprintf("report is missing column %q", col), nil).
				WithContext("columns", strings.Join(header, ";"))
		}
	}

	measures := make([]bool, len(header))
	for i, col := range header {
		measures[i] = domain.IsMeasureColumn(col)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read report record", err)
		}

		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("expected %d fields, saw %d", len(header), len(record)), nil).
				WithContext("line", line)
		}

		row := make(domain.Row, len(header))
		for i := range header {
			var value string
			if i < len(record) {
				value = record[i]
			}
			if measures[i] {
				row[i] = domain.CountCell(NormalizeCount(value))
			} else {
				row[i] = domain.TextCell(value)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
