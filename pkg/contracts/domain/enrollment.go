package domain

import (
	"strconv"
)

// Column names of the SIGE enrollment report ("Mapa de Enturmação").
const (
	ColumnSecretaria        = "Secretaria"
	ColumnMunicipio         = "Municipio"
	ColumnDescricao         = "Descricao"
	ColumnMatTotal          = "Mat. Total"
	ColumnNaoEnturmados     = "Não Enturmados"
	ColumnEnturmados        = "Enturmados"
	ColumnQuantidadeTurmas  = "Quantidade de Turmas"
	ColumnMatPresencial     = "Mat. Presencial"
	ColumnMatSemipresencial = "Mat. Semipresencial"
	ColumnStatus            = "Status"
	ColumnEtapa             = "Etapa" // derived from Descricao, never present in the source
)

// Status values that carry meaning for the export styling.
const (
	StatusAtencao = "Atenção"
	StatusCritica = "Crítica"
)

// MeasureColumns lists the numeric columns in report order.
var MeasureColumns = []string{
	ColumnMatTotal,
	ColumnNaoEnturmados,
	ColumnEnturmados,
	ColumnQuantidadeTurmas,
	ColumnMatPresencial,
	ColumnMatSemipresencial,
}

// RequiredColumns must all be present in a source report header.
var RequiredColumns = []string{
	ColumnSecretaria,
	ColumnMunicipio,
	ColumnDescricao,
	ColumnStatus,
}

// IsMeasureColumn reports whether name is one of the numeric measure columns.
func IsMeasureColumn(name string) bool {
	for _, c := range MeasureColumns {
		if c == name {
			return true
		}
	}
	return false
}

// CellKind tells how a Cell's value is stored.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellCount
)

// Cell is a single table value. Measure columns always hold CellCount cells.
type Cell struct {
	Kind  CellKind `json:"kind"`
	Text  string   `json:"text,omitempty"`
	Count int64    `json:"count,omitempty"`
}

// TextCell returns a text cell, or an empty cell when s is empty.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellText, Text: s}
}

// CountCell returns a numeric cell.
func CountCell(n int64) Cell {
	return Cell{Kind: CellCount, Count: n}
}

// IsEmpty reports whether the cell is a missing value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell the way it is shown in a spreadsheet.
func (c Cell) String() string {
	switch c.Kind {
	case CellCount:
		return strconv.FormatInt(c.Count, 10)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Row is positional against its Table's Columns.
type Row []Cell

// Table is an ordered sequence of rows sharing one column schema.
// Tables are treated as immutable once built: every transform returns a new Table.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table carries column name.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Value returns the cell of row i at column name. Absent columns and short
// rows yield an empty cell.
func (t *Table) Value(i int, name string) Cell {
	idx := t.Index(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return Cell{Kind: CellEmpty}
	}
	return t.Rows[i][idx]
}

// Drop returns a copy of the table without the named columns. Names that are
// not present are ignored.
func (t *Table) Drop(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	var keep []int
	var cols []string
	for i, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}

	out := NewTable(cols...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		row := make(Row, len(keep))
		for j, idx := range keep {
			if idx < len(r) {
				row[j] = r[idx]
			}
		}
		out.Rows[i] = row
	}
	return out
}

// AppendColumn returns a copy of the table with a new trailing column whose
// value for each row is computed by fn.
func (t *Table) AppendColumn(name string, fn func(i int) Cell) *Table {
	out := NewTable(append(append([]string(nil), t.Columns...), name)...)
	out.Rows = make([]Row, len(t.Rows))
	width := len(t.Columns)
	for i, r := range t.Rows {
		row := make(Row, width+1)
		copy(row, r)
		row[width] = fn(i)
		out.Rows[i] = row
	}
	return out
}
