package reconcile

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/dataset"
)

// Values maps each canonical district to one metric value for a choropleth.
type Values struct {
	Metric string             `json:"metric" yaml:"metric"`
	ByName map[string]float64 `json:"values" yaml:"values"`
	Min    float64            `json:"min" yaml:"min"`
	Max    float64            `json:"max" yaml:"max"`
}

// MetricValues extracts metricColumn from a reconciled result. When a
// district appears on several rows the last numeric value wins. Rows with a
// missing or non-numeric metric are skipped.
func MetricValues(res *Result, metricColumn string) (*Values, error) {
	t := res.Table
	distIdx := t.ColumnIndex(res.Column)
	metricIdx := t.ColumnIndex(metricColumn)
	if metricIdx < 0 {
		return nil, eris.Wrapf(ErrColumnNotFound, "reconcile: metric column %q", metricColumn)
	}

	v := &Values{Metric: metricColumn, ByName: make(map[string]float64)}
	for _, row := range t.Rows {
		f, ok := dataset.Float(row[metricIdx])
		if !ok {
			continue
		}
		name, _ := row[distIdx].(string)
		v.ByName[name] = f
	}
	if len(v.ByName) == 0 {
		return nil, eris.Errorf("reconcile: metric column %q has no numeric values", metricColumn)
	}

	v.Min, v.Max = math.Inf(1), math.Inf(-1)
	for _, f := range v.ByName {
		v.Min = math.Min(v.Min, f)
		v.Max = math.Max(v.Max, f)
	}
	return v, nil
}

// Ranked is one district and its metric value.
type Ranked struct {
	District string  `json:"district" yaml:"district"`
	Value    float64 `json:"value" yaml:"value"`
}

// Rank orders the districts by value, highest first unless ascending, and
// keeps the first n (all when n <= 0). Ties are broken by name.
func (v *Values) Rank(n int, ascending bool) []Ranked {
	out := make([]Ranked, 0, len(v.ByName))
	for name, val := range v.ByName {
		out = append(out, Ranked{District: name, Value: val})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			if ascending {
				return out[i].Value < out[j].Value
			}
			return out[i].Value > out[j].Value
		}
		return out[i].District < out[j].District
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
