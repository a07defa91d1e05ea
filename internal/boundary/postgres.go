package boundary

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/db"
)

// DefaultTable is the PostGIS table holding the canonical boundary set.
const DefaultTable = "district_boundaries"

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

func validateTable(table string) error {
	if !tableNameRe.MatchString(table) {
		return eris.Errorf("boundary: invalid table name %q", table)
	}
	return nil
}

// PostgresSource loads districts from a PostGIS table of
// (ord, name, geom) rows, in ord order.
type PostgresSource struct {
	Pool  db.Pool
	Table string
}

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) ([]District, error) {
	table := s.table()
	if err := validateTable(table); err != nil {
		return nil, err
	}

	rows, err := s.Pool.Query(ctx, fmt.Sprintf(`SELECT name, ST_AsEWKB(geom) FROM %s ORDER BY ord`, table))
	if err != nil {
		return nil, eris.Wrap(err, "boundary: query districts")
	}
	defer rows.Close()

	var districts []District
	for rows.Next() {
		var (
			name string
			data []byte
		)
		if err := rows.Scan(&name, &data); err != nil {
			return nil, eris.Wrap(err, "boundary: scan district row")
		}
		mp, err := DecodeEWKB(data)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: district %q", name)
		}
		districts = append(districts, District{Name: name, Geometry: mp})
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "boundary: iterate district rows")
	}

	return districts, nil
}

func (s *PostgresSource) table() string {
	if s.Table == "" {
		return DefaultTable
	}
	return s.Table
}

// ImportPostgres replaces the contents of table with districts, creating the
// table if needed. Load order is preserved in the ord column.
func ImportPostgres(ctx context.Context, pool db.Pool, table string, districts []District) (int64, error) {
	if table == "" {
		table = DefaultTable
	}
	if err := validateTable(table); err != nil {
		return 0, err
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	ord  INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	geom geometry(MultiPolygon, 4326) NOT NULL
)`, table)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return 0, eris.Wrap(err, "boundary: create table")
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(`TRUNCATE %s`, table)); err != nil {
		return 0, eris.Wrap(err, "boundary: truncate table")
	}

	rows := make([][]any, 0, len(districts))
	for i, d := range districts {
		data, err := EncodeEWKB(d.Geometry)
		if err != nil {
			return 0, eris.Wrapf(err, "boundary: district %q", d.Name)
		}
		rows = append(rows, []any{i, d.Name, data})
	}

	n, err := db.CopyFrom(ctx, pool, table, []string{"ord", "name", "geom"}, rows)
	if err != nil {
		return 0, err
	}

	zap.L().Info("boundary: imported districts into postgres",
		zap.String("table", table),
		zap.Int64("rows", n),
	)
	return n, nil
}
