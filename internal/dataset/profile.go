package dataset

import (
	"fmt"
	"math"
	"strings"
)

// DistrictKeywords are the header fragments that suggest a district column.
var DistrictKeywords = []string{"district", "districts", "dist", "area", "region", "location", "place", "city"}

// SuggestDistrictColumns returns the columns whose lowercased name contains
// one of DistrictKeywords, in header order. With no hit it returns every
// column so the caller can still choose.
func SuggestDistrictColumns(t *Table) []string {
	var out []string
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		for _, kw := range DistrictKeywords {
			if strings.Contains(lower, kw) {
				out = append(out, col)
				break
			}
		}
	}
	if len(out) == 0 {
		return append([]string(nil), t.Columns...)
	}
	return out
}

// Validate checks an upload before reconciliation. Errors block processing;
// warnings are informational.
func Validate(t *Table) (errs []string, warnings []string) {
	if t.Len() == 0 || len(t.Columns) == 0 {
		errs = append(errs, "the uploaded file is empty")
	}

	missing, cols := missingValues(t)
	if missing > 0 {
		warnings = append(warnings, fmt.Sprintf("found %d missing values across %d columns", missing, cols))
	}
	if dups := duplicateRows(t); dups > 0 {
		warnings = append(warnings, fmt.Sprintf("found %d duplicate rows", dups))
	}
	return errs, warnings
}

// Clean returns a copy with all-missing rows and columns removed and string
// cells trimmed.
func Clean(t *Table) *Table {
	keepCol := make([]bool, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			if v != nil {
				keepCol[i] = true
			}
		}
	}

	out := &Table{}
	for i, c := range t.Columns {
		if keepCol[i] {
			out.Columns = append(out.Columns, c)
		}
	}

	for _, row := range t.Rows {
		cleaned := make(Row, 0, len(out.Columns))
		empty := true
		for i, v := range row {
			if !keepCol[i] {
				continue
			}
			if s, ok := v.(string); ok {
				v = strings.TrimSpace(s)
			}
			if v != nil {
				empty = false
			}
			cleaned = append(cleaned, v)
		}
		if !empty {
			out.Rows = append(out.Rows, cleaned)
		}
	}
	return out
}

// Summary is the headline profile of a table.
type Summary struct {
	TotalRows          int `json:"total_rows" yaml:"total_rows"`
	TotalColumns       int `json:"total_columns" yaml:"total_columns"`
	NumericColumns     int `json:"numeric_columns" yaml:"numeric_columns"`
	CategoricalColumns int `json:"categorical_columns" yaml:"categorical_columns"`
	MissingValues      int `json:"missing_values" yaml:"missing_values"`
	DuplicateRows      int `json:"duplicate_rows" yaml:"duplicate_rows"`
}

// Summarize profiles t.
func Summarize(t *Table) Summary {
	numeric := len(NumericColumns(t))
	missing, _ := missingValues(t)
	return Summary{
		TotalRows:          t.Len(),
		TotalColumns:       len(t.Columns),
		NumericColumns:     numeric,
		CategoricalColumns: len(t.Columns) - numeric,
		MissingValues:      missing,
		DuplicateRows:      duplicateRows(t),
	}
}

// ColumnStats describes one numeric column.
type ColumnStats struct {
	Column string  `json:"column" yaml:"column"`
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
}

// Describe returns min, max and mean for every numeric column.
func Describe(t *Table) []ColumnStats {
	var out []ColumnStats
	for _, col := range NumericColumns(t) {
		idx := t.ColumnIndex(col)
		st := ColumnStats{Column: col, Min: math.Inf(1), Max: math.Inf(-1)}
		var sum float64
		for _, row := range t.Rows {
			f, ok := Float(row[idx])
			if !ok {
				continue
			}
			st.Count++
			sum += f
			st.Min = math.Min(st.Min, f)
			st.Max = math.Max(st.Max, f)
		}
		st.Mean = sum / float64(st.Count)
		out = append(out, st)
	}
	return out
}

// NumericColumns returns the columns whose non-missing cells are all numbers.
// A column with no values at all is not numeric.
func NumericColumns(t *Table) []string {
	var out []string
	for i, col := range t.Columns {
		seen, numeric := false, true
		for _, row := range t.Rows {
			if row[i] == nil {
				continue
			}
			seen = true
			if _, ok := Float(row[i]); !ok {
				numeric = false
				break
			}
		}
		if seen && numeric {
			out = append(out, col)
		}
	}
	return out
}

func missingValues(t *Table) (total, columns int) {
	perCol := make([]int, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			if v == nil {
				perCol[i]++
				total++
			}
		}
	}
	for _, n := range perCol {
		if n > 0 {
			columns++
		}
	}
	return total, columns
}

// duplicateRows counts rows identical to an earlier row.
func duplicateRows(t *Table) int {
	seen := make(map[string]struct{}, len(t.Rows))
	dups := 0
	var b strings.Builder
	for _, row := range t.Rows {
		b.Reset()
		for _, v := range row {
			fmt.Fprintf(&b, "%T:%v\x1f", v, v)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}
