package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/fetcher"
)

// LoadFile reads a CSV, XLSX or JSON file chosen by extension.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, eris.Wrap(openErr, "dataset: open csv")
		}
		defer f.Close() //nolint:errcheck
		t, err = ReadCSV(ctx, f)
	case ".xlsx":
		t, err = ReadXLSX(path, "")
	case ".json":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, eris.Wrap(openErr, "dataset: open json")
		}
		defer f.Close() //nolint:errcheck
		t, err = ReadJSON(ctx, f)
	default:
		return nil, eris.Errorf("dataset: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: load %s", path)
	}

	zap.L().Debug("dataset: loaded file",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns)),
	)
	return t, nil
}

// ReadCSV reads a CSV with a header row.
func ReadCSV(ctx context.Context, r io.Reader) (*Table, error) {
	header, records, err := fetcher.ReadCSV(ctx, r, fetcher.CSVOptions{LazyQuotes: true})
	if err != nil {
		return nil, err
	}
	return fromStrings(header, records), nil
}

// ReadXLSX reads a worksheet whose first row is the header. An empty sheet
// name selects the first sheet.
func ReadXLSX(path, sheet string) (*Table, error) {
	records, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.New("dataset: worksheet has no header row")
	}
	return fromStrings(records[0], records[1:]), nil
}

func fromStrings(header []string, records [][]string) *Table {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(rec))
		for i, s := range rec {
			row[i] = ParseCell(s)
		}
		rows = append(rows, row)
	}
	return NewTable(columns, rows)
}

// ReadJSON reads an array of flat objects. Columns are the union of object
// keys; keys first seen in the same object are ordered alphabetically.
func ReadJSON(ctx context.Context, r io.Reader) (*Table, error) {
	recCh, errCh := fetcher.DecodeJSONArray[map[string]any](ctx, r)

	var (
		columns []string
		seen    = map[string]int{}
		records []map[string]any
	)
	for rec := range recCh {
		fresh := make([]string, 0)
		for k := range rec {
			if _, ok := seen[k]; !ok {
				fresh = append(fresh, k)
			}
		}
		sort.Strings(fresh)
		for _, k := range fresh {
			seen[k] = len(columns)
			columns = append(columns, k)
		}
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(columns))
		for k, v := range rec {
			row[seen[k]] = jsonCell(v)
		}
		rows = append(rows, row)
	}
	return NewTable(columns, rows), nil
}

func jsonCell(v any) any {
	switch c := v.(type) {
	case json.Number:
		if f, err := c.Float64(); err == nil {
			return f
		}
		return c.String()
	case string, bool, nil:
		return c
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return nil
		}
		return string(b)
	}
}

// WriteCSV writes the header and every row, rendering cells with CellString.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return eris.Wrap(err, "dataset: write csv header")
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = CellString(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "dataset: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "dataset: flush csv")
}
