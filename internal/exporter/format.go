package exporter

import (
	"strings"
	"time"

	"github.com/cecomcrede1/enturmacao/internal/dataprocessing"
)

// FileStampLayout is the timestamp embedded in download file names
const FileStampLayout = "02012006_150405"

const fileNamePrefix = "Relatorio_SIGE_"

// FileName names the single workbook produced for sel, e.g.
// "Relatorio_SIGE_Todos_14102026_093000.xlsx" or
// "Relatorio_SIGE_Fortaleza_14102026_093000.xlsx".
func FileName(sel dataprocessing.Selection, now time.Time) string {
	scope := "Todos"
	if !sel.AllMunicipios() {
		scope = sanitizeFileComponent(sel.Municipio)
	}
	return fileNamePrefix + scope + "_" + now.Format(FileStampLayout) + ".xlsx"
}

// ArchiveFileName names the per-municipality zip archive
func ArchiveFileName(now time.Time) string {
	return fileNamePrefix + "Municipios_Excel_" + now.Format(FileStampLayout) + ".zip"
}

// sanitizeFileComponent keeps a municipality name from escaping the output
// directory or the archive root
func sanitizeFileComponent(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
}
