// Package dataset is the in-memory tabular model for user uploads: a header
// plus rows of loosely typed cells (nil, float64, string, bool).
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one record. Cells line up with Table.Columns; nil is a missing value.
type Row []any

// Table is an ordered set of rows under a shared header.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a table, padding or truncating each row to the header width.
func NewTable(columns []string, rows []Row) *Table {
	t := &Table{Columns: append([]string(nil), columns...), Rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(columns)))
	}
	return t
}

func fit(r Row, width int) Row {
	out := make(Row, width)
	copy(out, r)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the header and row slices. Cell values are
// immutable scalars and are shared.
func (t *Table) Clone() *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...), Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}

// Column returns every cell of the named column, or false if it is absent.
func (t *Table) Column(name string) ([]any, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, true
}

// ParseCell converts raw text from CSV or XLSX into a cell: blank text and
// NaN are missing, finite numeric text becomes float64, anything else stays
// a string.
func ParseCell(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		switch {
		case math.IsNaN(f):
			return nil
		case math.IsInf(f, 0):
			return s
		}
		return f
	}
	return s
}

// CellString renders a cell for output. Missing cells render empty.
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}

// Float returns the cell as a number when it is one.
func Float(v any) (float64, bool) {
	switch c := v.(type) {
	case float64:
		return c, true
	case int:
		return float64(c), true
	case int64:
		return float64(c), true
	default:
		return 0, false
	}
}
