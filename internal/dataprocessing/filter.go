package dataprocessing

import (
	"sort"
	"strings"

	"github.com/cecomcrede1/enturmacao/pkg/contracts/domain"
)

// AllMunicipalities is the selection value meaning "no municipality constraint"
const AllMunicipalities = "Todos os Municípios"

// Selection is a set of row predicates. Zero values impose no constraint.
type Selection struct {
	Municipio string   `json:"municipio,omitempty"`
	Etapas    []string `json:"etapas,omitempty"`
	Statuses  []string `json:"statuses,omitempty"`
}

// AllMunicipios reports whether the selection spans every municipality
func (s Selection) AllMunicipios() bool {
	return s.Municipio == "" || s.Municipio == AllMunicipalities
}

// IsEmpty reports whether the selection imposes no constraint at all
func (s Selection) IsEmpty() bool {
	return s.AllMunicipios() && len(s.Etapas) == 0 && len(s.Statuses) == 0
}

// Apply returns the rows of t matching every predicate in sel, in their
// original order. The input table is not modified. Missing cells never match.
func Apply(t *domain.Table, sel Selection) *domain.Table {
	if t == nil {
		return nil
	}

	etapas := toSet(sel.Etapas)
	statuses := toSet(sel.Statuses)

	out := domain.NewTable(t.Columns...)
	out.Rows = make([]domain.Row, 0, len(t.Rows))
	for i, row := range t.Rows {
		if !sel.AllMunicipios() && !matchesValue(t.Value(i, domain.ColumnMunicipio), sel.Municipio) {
			continue
		}
		if etapas != nil && !matchesSet(t.Value(i, domain.ColumnEtapa), etapas) {
			continue
		}
		if statuses != nil && !matchesSet(t.Value(i, domain.ColumnStatus), statuses) {
			continue
		}
		out.Rows = append(out.Rows, append(domain.Row(nil), row...))
	}
	return out
}

func matchesValue(c domain.Cell, want string) bool {
	return !c.IsEmpty() && c.String() == want
}

func matchesSet(c domain.Cell, set map[string]struct{}) bool {
	if c.IsEmpty() {
		return false
	}
	_, ok := set[c.String()]
	return ok
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Describe renders the active predicates of sel as the human-readable lines
// shown on the workbook's information sheet.
func Describe(sel Selection) []string {
	var lines []string
	if !sel.AllMunicipios() {
		lines = append(lines, "Município: "+sel.Municipio)
	}
	if len(sel.Etapas) > 0 {
		lines = append(lines, "Etapa(s): "+strings.Join(sel.Etapas, ", "))
	}
	if len(sel.Statuses) > 0 {
		lines = append(lines, "Status: "+strings.Join(sel.Statuses, ", "))
	}
	return lines
}

// FilterOptions lists the values a Selection can be built from
type FilterOptions struct {
	Municipios []string `json:"municipios"`
	Etapas     []string `json:"etapas"`
	Statuses   []string `json:"statuses"`
}

// Options collects the distinct selectable values of t. Municipalities start
// with AllMunicipalities; blank stages are left out.
func Options(t *domain.Table) FilterOptions {
	opts := FilterOptions{
		Municipios: []string{AllMunicipalities},
		Etapas:     []string{},
		Statuses:   []string{},
	}
	if t == nil {
		return opts
	}

	opts.Municipios = append(opts.Municipios, distinct(t, domain.ColumnMunicipio)...)
	for _, stage := range distinct(t, domain.ColumnEtapa) {
		if strings.TrimSpace(stage) != "" {
			opts.Etapas = append(opts.Etapas, stage)
		}
	}
	opts.Statuses = append(opts.Statuses, distinct(t, domain.ColumnStatus)...)
	return opts
}

// distinct returns the sorted non-missing values of column
func distinct(t *domain.Table, column string) []string {
	if !t.Has(column) {
		return nil
	}
	seen := make(map[string]struct{})
	var values []string
	for i := range t.Rows {
		c := t.Value(i, column)
		if c.IsEmpty() {
			continue
		}
		v := c.String()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Groups returns the distinct non-missing values of column in byte-wise order
func Groups(t *domain.Table, column string) []string {
	if t == nil {
		return nil
	}
	return distinct(t, column)
}

// GroupRows returns the rows of t whose column equals value
func GroupRows(t *domain.Table, column, value string) *domain.Table {
	out := domain.NewTable(t.Columns...)
	for i, row := range t.Rows {
		if matchesValue(t.Value(i, column), value) {
			out.Rows = append(out.Rows, append(domain.Row(nil), row...))
		}
	}
	return out
}
