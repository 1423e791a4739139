package model

import (
	"time"
)

// CellKind classifies the values held by a table column.
type CellKind string

const (
	KindString CellKind = "string"
	KindInt    CellKind = "int"
	KindFloat  CellKind = "float"
	KindBool   CellKind = "bool"
	KindTime   CellKind = "time"
)

// Numeric reports whether the kind is usable as a chart value axis.
func (k CellKind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// Column describes one column of a result table.
type Column struct {
	Name string   `json:"name"`
	Kind CellKind `json:"kind"`
}

// Row holds one row of cell values, positionally aligned with the
// table's column list. Cells are string, int64, float64, bool,
// time.Time, or nil for SQL NULL.
type Row []any

// Table is an ordered, typed tabular result from the analytic store.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// FirstNumericColumn returns the name of the first column whose kind is
// numeric, scanning left to right. ok is false when none exists.
func (t *Table) FirstNumericColumn() (string, bool) {
	for _, c := range t.Columns {
		if c.Kind.Numeric() {
			return c.Name, true
		}
	}
	return "", false
}

// Head returns a copy of the table truncated to at most n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Records converts up to n rows into column-keyed maps suitable for
// JSON serialization into prompts. Times are rendered as ISO dates so
// the generation service sees stable values.
func (t *Table) Records(n int) []map[string]any {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	records := make([]map[string]any, 0, n)
	for _, row := range t.Rows[:n] {
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			if i >= len(row) {
				break
			}
			rec[c.Name] = normalizeCell(row[i])
		}
		records = append(records, rec)
	}
	return records
}

// Column values at a given index, as rendered strings. Used for legend
// grouping and pie labels.
func (t *Table) StringValues(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx >= len(row) {
			out = append(out, "")
			continue
		}
		out = append(out, CellString(row[idx]))
	}
	return out
}

func normalizeCell(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Format("2006-01-02")
	}
	return v
}
