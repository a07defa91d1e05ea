package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/dataset"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/match"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/reconcile"
)

var (
	reconcileColumn  string
	reconcileMetric  string
	reconcileTop     int
	reconcileOutDir  string
	reconcileFormat  string
	reconcileNoClean bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile FILE...",
	Short: "Rewrite district names in tabular files to canonical boundary names",
	Long: `Reads each CSV, XLSX or JSON file, matches the district column against the
canonical boundary names, and writes two files next to the input (or into
--out-dir):

  <name>.reconciled.csv     rows whose district resolved, names rewritten
  <name>.report.json|yaml   per-name match report, unmatched names, and
                            optional metric values and ranking

Files are processed concurrently up to reconcile.concurrency.`,
	Example: `  districtviz reconcile data/rainfall.csv --column District --metric rainfall_mm
  districtviz reconcile data/*.xlsx --format yaml --out-dir out/`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if reconcileFormat != "" {
			cfg.Reconcile.ReportFormat = reconcileFormat
		}
		if reconcileColumn != "" {
			cfg.Reconcile.Column = reconcileColumn
		}
		if err := cfg.Validate("reconcile"); err != nil {
			return err
		}

		ctx := cmd.Context()
		set, err := loadBoundarySet(ctx)
		if err != nil {
			return err
		}
		rc := reconcile.NewReconciler(set)

		bases, err := outputBases(args, reconcileOutDir)
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Reconcile.Concurrency)

		var succeeded, failed atomic.Int64
		for i, path := range args {
			g.Go(func() error {
				log := zap.L().With(zap.String("file", path))

				doc, err := reconcileFile(gctx, rc, path, bases[i])
				if err != nil {
					failed.Add(1)
					log.Error("reconcile failed", zap.Error(err))
					return nil // don't abort the other files
				}

				succeeded.Add(1)
				log.Info("reconcile complete",
					zap.String("run_id", doc.RunID),
					zap.String("column", doc.Column),
					zap.Int("exact", doc.Exact),
					zap.Int("fuzzy", doc.Fuzzy),
					zap.Int("unmatched", doc.UnmatchedCount),
				)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("Reconciled %d of %d files\n", succeeded.Load(), len(args))
		if n := failed.Load(); n > 0 {
			return eris.Errorf("reconcile: %d of %d files failed", n, len(args))
		}
		return nil
	},
}

func init() {
	f := reconcileCmd.Flags()
	f.StringVar(&reconcileColumn, "column", "", "district column (default: reconcile.column, then auto-detect)")
	f.StringVar(&reconcileMetric, "metric", "", "numeric column to map onto districts")
	f.IntVar(&reconcileTop, "top", 10, "number of districts in the metric ranking (0 for all)")
	f.StringVar(&reconcileOutDir, "out-dir", "", "output directory (default: next to each input)")
	f.StringVar(&reconcileFormat, "format", "", "report format: json or yaml (default: reconcile.report_format)")
	f.BoolVar(&reconcileNoClean, "no-clean", false, "skip dropping empty rows and columns")
	rootCmd.AddCommand(reconcileCmd)
}

// reportDoc is the persisted report for one input file.
type reportDoc struct {
	File           string             `json:"file" yaml:"file"`
	RunID          string             `json:"run_id" yaml:"run_id"`
	Column         string             `json:"column" yaml:"column"`
	Rows           int                `json:"rows" yaml:"rows"`
	Exact          int                `json:"exact" yaml:"exact"`
	Fuzzy          int                `json:"fuzzy" yaml:"fuzzy"`
	UnmatchedCount int                `json:"unmatched_count" yaml:"unmatched_count"`
	Warnings       []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Unmatched      []string           `json:"unmatched" yaml:"unmatched"`
	Report         []match.Result     `json:"report" yaml:"report"`
	Values         *reconcile.Values  `json:"values,omitempty" yaml:"values,omitempty"`
	Ranking        []reconcile.Ranked `json:"ranking,omitempty" yaml:"ranking,omitempty"`
	Error          string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// reconcileFile runs one input through load, validate, clean and reconcile,
// then writes its outputs under base. A run that matched nothing still writes
// a report.
func reconcileFile(ctx context.Context, rc *reconcile.Reconciler, path, base string) (*reportDoc, error) {
	t, err := dataset.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	errs, warnings := dataset.Validate(t)
	if len(errs) > 0 {
		return nil, eris.Errorf("reconcile: %s: %s", path, strings.Join(errs, "; "))
	}
	if !reconcileNoClean {
		t = dataset.Clean(t)
	}

	column := cfg.Reconcile.Column
	if column == "" {
		column = pickDistrictColumn(t)
		if column == "" {
			return nil, eris.Errorf("reconcile: %s has no columns", path)
		}
		zap.L().Info("reconcile: auto-selected district column",
			zap.String("file", path),
			zap.String("column", column),
		)
	}

	res, runErr := rc.Reconcile(t, column)
	if runErr != nil && !errors.Is(runErr, reconcile.ErrNoMatches) {
		return nil, runErr
	}

	doc := newReportDoc(path, res, warnings)
	if runErr != nil {
		doc.Error = runErr.Error()
	} else if reconcileMetric != "" {
		vals, err := reconcile.MetricValues(res, reconcileMetric)
		if err != nil {
			return nil, err
		}
		doc.Values = vals
		doc.Ranking = vals.Rank(reconcileTop, false)
	}

	if runErr == nil {
		if err := writeTable(base+".reconciled.csv", res.Table); err != nil {
			return nil, err
		}
	}
	if err := writeReport(base+".report."+cfg.Reconcile.ReportFormat, cfg.Reconcile.ReportFormat, doc); err != nil {
		return nil, err
	}

	return doc, runErr
}

func pickDistrictColumn(t *dataset.Table) string {
	cols := dataset.SuggestDistrictColumns(t)
	if len(cols) == 0 {
		return ""
	}
	return cols[0]
}

func newReportDoc(path string, res *reconcile.Result, warnings []string) *reportDoc {
	exact, fuzzy, unmatched := res.Counts()
	return &reportDoc{
		File:           path,
		RunID:          res.RunID,
		Column:         res.Column,
		Rows:           res.Table.Len(),
		Exact:          exact,
		Fuzzy:          fuzzy,
		UnmatchedCount: unmatched,
		Warnings:       warnings,
		Unmatched:      res.Unmatched,
		Report:         res.Report,
	}
}

// outputBase returns the output path prefix for an input: its directory (or
// outDir) joined with the file name minus its extension.
func outputBase(input, outDir string) (string, error) {
	dir := filepath.Dir(input)
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", eris.Wrap(err, "reconcile: create output dir")
		}
		dir = outDir
	}
	name := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))), nil
}

// outputBases resolves the output prefix of every input and rejects inputs
// that would write the same files, such as a.csv and a.xlsx, or two data.csv
// files from different directories sent to one --out-dir.
func outputBases(inputs []string, outDir string) ([]string, error) {
	bases := make([]string, len(inputs))
	owner := make(map[string]string, len(inputs))
	for i, input := range inputs {
		base, err := outputBase(input, outDir)
		if err != nil {
			return nil, err
		}
		key := base
		if abs, err := filepath.Abs(base); err == nil {
			key = abs
		}
		if prev, dup := owner[key]; dup {
			return nil, eris.Errorf("reconcile: %s and %s would write the same outputs (%s.*)", prev, input, base)
		}
		owner[key] = input
		bases[i] = base
	}
	return bases, nil
}

func writeTable(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "reconcile: create csv")
	}
	if err := dataset.WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "reconcile: close csv")
}

func writeReport(path, format string, doc *reportDoc) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(doc)
	case "json":
		data, err = json.MarshalIndent(doc, "", "  ")
	default:
		return eris.Errorf("reconcile: unknown report format %q", format)
	}
	if err != nil {
		return eris.Wrap(err, "reconcile: encode report")
	}
	return eris.Wrap(os.WriteFile(path, data, 0o644), "reconcile: write report")
}
