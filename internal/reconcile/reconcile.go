// Package reconcile rewrites the district column of a user table to canonical
// names and drops the rows that cannot be resolved.
package reconcile

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/dataset"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/match"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/normalize"
)

var (
	// ErrColumnNotFound is returned when the chosen district column is not in the table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrNoMatches is returned when every row was dropped. The Result is still
	// returned so callers can show what failed to match.
	ErrNoMatches = errors.New("no districts could be matched")
)

// NameProvider supplies the canonical district names in canonical order.
type NameProvider interface {
	AllDistrictNames() []string
}

// Result is the outcome of one reconciliation run.
type Result struct {
	RunID  string `json:"run_id" yaml:"run_id"`
	Column string `json:"column" yaml:"column"`
	// Table holds the surviving rows with the district column rewritten.
	Table *dataset.Table `json:"-" yaml:"-"`
	// Unmatched lists the distinct raw values whose rows were dropped, in
	// first-seen order. Blank cells appear as "".
	Unmatched []string `json:"unmatched" yaml:"unmatched"`
	// Report has one entry per distinct non-empty key, in first-seen order.
	Report []match.Result `json:"report" yaml:"report"`
}

// Fuzzy returns the report entries that were resolved by similarity.
func (r *Result) Fuzzy() []match.Result {
	var out []match.Result
	for _, m := range r.Report {
		if m.Kind == match.KindFuzzy {
			out = append(out, m)
		}
	}
	return out
}

// Counts tallies the report by kind.
func (r *Result) Counts() (exact, fuzzy, unmatched int) {
	for _, m := range r.Report {
		switch m.Kind {
		case match.KindExact:
			exact++
		case match.KindFuzzy:
			fuzzy++
		default:
			unmatched++
		}
	}
	return exact, fuzzy, unmatched
}

// Reconciler reconciles tables against one canonical name list. It holds
// only an immutable Matcher and may be shared across goroutines.
type Reconciler struct {
	matcher *match.Matcher
}

// NewReconciler precomputes the canonical keys of names.
func NewReconciler(names NameProvider) *Reconciler {
	return &Reconciler{matcher: match.New(names.AllDistrictNames())}
}

// Reconcile is a one-shot convenience over NewReconciler.
func Reconcile(t *dataset.Table, column string, names NameProvider) (*Result, error) {
	return NewReconciler(names).Reconcile(t, column)
}

// Reconcile resolves every cell of column, rewrites matched cells to their
// canonical name and drops unmatched rows. Row order, duplicates and other
// columns are preserved. t is not modified.
func (rc *Reconciler) Reconcile(t *dataset.Table, column string) (*Result, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, eris.Wrapf(ErrColumnNotFound, "reconcile: column %q", column)
	}

	res := &Result{
		RunID:     uuid.NewString(),
		Column:    column,
		Table:     &dataset.Table{Columns: append([]string(nil), t.Columns...)},
		Unmatched: []string{},
		Report:    []match.Result{},
	}

	// Resolve each distinct key once, remembering first-seen order.
	resolved := make(map[string]match.Result)
	for _, row := range t.Rows {
		key := normalize.Key(row[idx])
		if key == "" {
			continue
		}
		if _, ok := resolved[key]; ok {
			continue
		}
		m := rc.matcher.Match(dataset.CellString(row[idx]))
		resolved[key] = m
		res.Report = append(res.Report, m)

		if m.Kind == match.KindFuzzy {
			zap.L().Info("reconcile: fuzzy match",
				zap.String("run_id", res.RunID),
				zap.String("raw", m.RawName),
				zap.String("canonical", m.Canonical),
				zap.Int("score", *m.Score),
			)
		}
	}

	seenUnmatched := make(map[string]struct{})
	for _, row := range t.Rows {
		m, ok := resolved[normalize.Key(row[idx])]
		if ok && m.Matched() {
			out := append(dataset.Row(nil), row...)
			out[idx] = m.Canonical
			res.Table.Rows = append(res.Table.Rows, out)
			continue
		}
		raw := dataset.CellString(row[idx])
		if _, dup := seenUnmatched[raw]; !dup {
			seenUnmatched[raw] = struct{}{}
			res.Unmatched = append(res.Unmatched, raw)
		}
	}

	if len(res.Unmatched) > 0 {
		zap.L().Warn("reconcile: could not match districts",
			zap.String("run_id", res.RunID),
			zap.Strings("unmatched", res.Unmatched),
		)
	}

	if len(res.Table.Rows) == 0 {
		return res, eris.Wrapf(ErrNoMatches, "reconcile: column %q", column)
	}

	exact, fuzzy, unmatched := res.Counts()
	zap.L().Debug("reconcile: done",
		zap.String("run_id", res.RunID),
		zap.Int("rows_in", t.Len()),
		zap.Int("rows_out", res.Table.Len()),
		zap.Int("exact", exact),
		zap.Int("fuzzy", fuzzy),
		zap.Int("unmatched", unmatched),
	)
	return res, nil
}
