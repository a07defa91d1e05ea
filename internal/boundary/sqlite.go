package boundary

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore caches a boundary set in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS districts (
	ord  INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	geom BLOB NOT NULL
);
`

// Migrate creates the districts table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored boundary set with districts.
func (s *SQLiteStore) Save(ctx context.Context, districts []District) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM districts`); err != nil {
		return eris.Wrap(err, "sqlite: clear districts")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO districts (ord, name, geom) VALUES (?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	for i, d := range districts {
		data, err := EncodeEWKB(d.Geometry)
		if err != nil {
			return eris.Wrapf(err, "sqlite: district %q", d.Name)
		}
		if _, err := stmt.ExecContext(ctx, i, d.Name, data); err != nil {
			return eris.Wrapf(err, "sqlite: insert district %q", d.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// Load implements Source.
func (s *SQLiteStore) Load(ctx context.Context) ([]District, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, geom FROM districts ORDER BY ord`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query districts")
	}
	defer func() { _ = rows.Close() }()

	var districts []District
	for rows.Next() {
		var (
			name string
			data []byte
		)
		if err := rows.Scan(&name, &data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan district")
		}
		mp, err := DecodeEWKB(data)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: district %q", name)
		}
		districts = append(districts, District{Name: name, Geometry: mp})
	}
	return districts, eris.Wrap(rows.Err(), "sqlite: iterate districts")
}
