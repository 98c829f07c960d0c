package exporter

import (
	"archive/zip"
	"bytes"
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/cecomcrede1/enturmacao/internal/dataprocessing"
	apperrors "github.com/cecomcrede1/enturmacao/internal/errors"
	"github.com/cecomcrede1/enturmacao/internal/infrastructure"
	"github.com/cecomcrede1/enturmacao/pkg/contracts/domain"
)

// ExportByGroup renders one workbook per distinct Municipio of t and bundles
// them into a zip archive. Entries are named "<municipio>.xlsx", with path
// separators and ".." replaced, and appear in byte-wise sorted order. A table without municipalities yields a valid
// empty archive.
func (e *WorkbookExporter) ExportByGroup(ctx context.Context, t *domain.Table, filters []string) ([]byte, error) {
	ctx, span := infrastructure.StartSpan(ctx, "exporter.ExportByGroup", attribute.Int("rows", t.Len()))
	defer span.End()

	start := time.Now()
	groups := dataprocessing.Groups(t, domain.ColumnMunicipio)
	span.SetAttributes(attribute.Int("groups", len(groups)))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, group := range groups {
		groupStart := time.Now()
		rows := dataprocessing.GroupRows(t, domain.ColumnMunicipio, group)

		data, err := e.render(GroupTitlePrefix+group, rows, filters)
		if err != nil {
			zw.Close()
			infrastructure.RecordError(ctx, err)
			return nil, err
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     sanitizeFileComponent(group) + ".xlsx",
			Method:   zip.Deflate,
			Modified: e.clock(),
		})
		if err != nil {
			zw.Close()
			appErr := apperrors.NewExportError("failed to add archive entry", err).WithContext("group", group)
			infrastructure.RecordError(ctx, appErr)
			return nil, appErr
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			appErr := apperrors.NewExportError("failed to write archive entry", err).WithContext("group", group)
			infrastructure.RecordError(ctx, appErr)
			return nil, appErr
		}

		// rows were already counted by the consolidated export
		e.metrics.ObserveExport(infrastructure.KindGroup, 0, time.Since(groupStart))
		e.logger.DebugContext(ctx, "group workbook generated",
			slog.String("group", group),
			slog.Int("rows", rows.Len()))
	}

	if err := zw.Close(); err != nil {
		appErr := apperrors.NewExportError("failed to finalize archive", err)
		infrastructure.RecordError(ctx, appErr)
		return nil, appErr
	}

	e.metrics.ObserveExport(infrastructure.KindArchive, 0, time.Since(start))
	e.logger.InfoContext(ctx, "archive generated",
		slog.Int("groups", len(groups)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}
