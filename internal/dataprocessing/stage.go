package dataprocessing

import (
	"strings"

	"github.com/cecomcrede1/enturmacao/pkg/contracts/domain"
)

const (
	// StageSecretariaTotal marks the secretariat rollup row
	StageSecretariaTotal = "TOTAL SECRETARIA"
	// StageSchoolTotal labels every other unstructured rollup row
	StageSchoolTotal = "Total escola"

	stageSeparator = " - "
)

// ExtractStage derives the "Etapa" label from a Descricao value.
//
// Descriptions are pipe-delimited; the stage is the part after the last
// " - " in the first segment that has one. A pipe-delimited description with
// no " - " yields its first segment unchanged.
func ExtractStage(desc string) string {
	if desc == "" {
		return ""
	}

	if strings.Contains(desc, "|") {
		segments := strings.Split(desc, "|")
		for _, seg := range segments {
			if stage, ok := lastAfterSeparator(strings.TrimSpace(seg)); ok {
				return stage
			}
		}
		return strings.TrimSpace(segments[0])
	}

	if desc == StageSecretariaTotal {
		return StageSecretariaTotal
	}

	if stage, ok := lastAfterSeparator(strings.TrimSpace(desc)); ok {
		return stage
	}

	return StageSchoolTotal
}

func lastAfterSeparator(s string) (string, bool) {
	i := strings.LastIndex(s, stageSeparator)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(s[i+len(stageSeparator):]), true
}

// WithStage returns a copy of t with a trailing Etapa column derived from
// Descricao. Rows without a description get an empty stage. An existing
// Etapa column is replaced.
func WithStage(t *domain.Table) *domain.Table {
	if t == nil {
		return nil
	}
	if t.Has(domain.ColumnEtapa) {
		t = t.Drop(domain.ColumnEtapa)
	}
	return t.AppendColumn(domain.ColumnEtapa, func(i int) domain.Cell {
		return domain.TextCell(ExtractStage(t.Value(i, domain.ColumnDescricao).String()))
	})
}
