package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cecomcrede1/enturmacao/internal/dataprocessing"
)

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 5, 7, 0, time.UTC)

	tests := []struct {
		name string
		sel  dataprocessing.Selection
		want string
	}{
		{"no selection", dataprocessing.Selection{}, "Relatorio_SIGE_Todos_14102026_090507.xlsx"},
		{"all municipalities", dataprocessing.Selection{Municipio: dataprocessing.AllMunicipalities}, "Relatorio_SIGE_Todos_14102026_090507.xlsx"},
		{"one municipality", dataprocessing.Selection{Municipio: "Fortaleza"}, "Relatorio_SIGE_Fortaleza_14102026_090507.xlsx"},
		{"path separators are replaced", dataprocessing.Selection{Municipio: "../a/b"}, "Relatorio_SIGE___a_b_14102026_090507.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.sel, now))
		})
	}
}

func TestArchiveFileName(t *testing.T) {
	now := time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "Relatorio_SIGE_Municipios_Excel_02012026_235900.zip", ArchiveFileName(now))
}
