package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestDistrictColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    []string
	}{
		{"district", []string{"District Name", "Population"}, []string{"District Name"}},
		{"several", []string{"id", "City", "Region Code", "value"}, []string{"City", "Region Code"}},
		{"abbreviation", []string{"DIST", "score"}, []string{"DIST"}},
		{"fallback to all", []string{"name", "value"}, []string{"name", "value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestDistrictColumns(NewTable(tt.columns, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	errs, warnings := Validate(NewTable([]string{"District"}, nil))
	assert.Equal(t, []string{"the uploaded file is empty"}, errs)
	assert.Empty(t, warnings)

	tbl := NewTable([]string{"District", "Value", "Note"}, []Row{
		{"Medak", nil, nil},
		{"Medak", nil, nil},
		{"Karimnagar", 1.0, nil},
	})
	errs, warnings = Validate(tbl)
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		"found 5 missing values across 2 columns",
		"found 1 duplicate rows",
	}, warnings)
}

func TestClean(t *testing.T) {
	tbl := NewTable([]string{"District", "Empty", "Value"}, []Row{
		{"  Medak ", nil, 1.0},
		{nil, nil, nil},
		{"Jangaon", nil, nil},
	})

	cleaned := Clean(tbl)
	assert.Equal(t, []string{"District", "Value"}, cleaned.Columns)
	assert.Equal(t, []Row{{"Medak", 1.0}, {"Jangaon", nil}}, cleaned.Rows)
	assert.Equal(t, "  Medak ", tbl.Rows[0][0], "input is not modified")
}

func TestSummarize(t *testing.T) {
	tbl := NewTable([]string{"District", "Value", "Code"}, []Row{
		{"Medak", 1.0, "a"},
		{"Medak", 1.0, "a"},
		{"Nirmal", nil, "b"},
	})

	assert.Equal(t, Summary{
		TotalRows:          3,
		TotalColumns:       3,
		NumericColumns:     1,
		CategoricalColumns: 2,
		MissingValues:      1,
		DuplicateRows:      1,
	}, Summarize(tbl))
}

func TestDescribe(t *testing.T) {
	tbl := NewTable([]string{"District", "Value", "Blank"}, []Row{
		{"Medak", 4.0, nil},
		{"Nirmal", nil, nil},
		{"Siddipet", -2.0, nil},
		{"Jangaon", 1.0, nil},
	})

	stats := Describe(tbl)
	require.Len(t, stats, 1)
	assert.Equal(t, ColumnStats{Column: "Value", Count: 3, Min: -2, Max: 4, Mean: 1}, stats[0])
}

func TestNumericColumns_MixedIsCategorical(t *testing.T) {
	tbl := NewTable([]string{"Mixed"}, []Row{{1.0}, {"n/a"}})
	assert.Empty(t, NumericColumns(tbl))
}
