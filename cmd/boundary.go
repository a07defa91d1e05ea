package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/boundary"
)

var importTarget string

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Manage district boundary stores",
}

var boundaryImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the boundary file into PostgreSQL or SQLite",
	Long: `Loads boundary.path (downloading it first when it is a URL) and writes
the districts, in load order, into the configured store.

  --to postgres   replaces boundary.table in store.database_url
  --to sqlite     replaces the districts table in store.sqlite_path`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("import"); err != nil {
			return err
		}
		ctx := cmd.Context()

		set, err := boundary.Load(ctx, fileSource())
		if err != nil {
			return eris.Wrap(err, "boundary import: load")
		}
		districts := orderedDistricts(set)

		switch importTarget {
		case "postgres":
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := boundary.ImportPostgres(ctx, pool, cfg.Boundary.Table, districts)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d districts into %s\n", n, cfg.Boundary.Table)
		case "sqlite":
			store, err := boundary.NewSQLite(cfg.Store.SQLitePath)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			if err := store.Save(ctx, districts); err != nil {
				return err
			}
			fmt.Printf("Imported %d districts into %s\n", len(districts), cfg.Store.SQLitePath)
		default:
			return eris.Errorf("boundary import: unknown target %q (want postgres or sqlite)", importTarget)
		}
		return nil
	},
}

func init() {
	boundaryImportCmd.Flags().StringVar(&importTarget, "to", "sqlite", "destination store: postgres or sqlite")
	boundaryCmd.AddCommand(boundaryImportCmd)
	rootCmd.AddCommand(boundaryCmd)
}

// loadBoundarySet builds the canonical district set. A configured
// store.database_url wins over boundary.path unless --boundary was given.
func loadBoundarySet(ctx context.Context) (*boundary.Set, error) {
	if cfg.Store.DatabaseURL != "" && boundaryPath == "" {
		pool, err := openPool(ctx)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		return boundary.Load(ctx, &boundary.PostgresSource{Pool: pool, Table: cfg.Boundary.Table})
	}
	return boundary.Load(ctx, fileSource())
}

// fileSource defers the download of a remote boundary.path to Load time.
func fileSource() boundary.Source {
	return sourceFunc(func(ctx context.Context) ([]boundary.District, error) {
		path, err := boundary.Fetch(ctx, cfg.Boundary.Path, boundary.FetchOptions{
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
			CacheDir:   cfg.Boundary.CacheDir,
		})
		if err != nil {
			return nil, err
		}
		src := &boundary.FileSource{
			Path:         path,
			Format:       cfg.Boundary.Format,
			NameProperty: cfg.Boundary.NameProperty,
		}
		return src.Load(ctx)
	})
}

type sourceFunc func(ctx context.Context) ([]boundary.District, error)

func (f sourceFunc) Load(ctx context.Context) ([]boundary.District, error) { return f(ctx) }

func orderedDistricts(set *boundary.Set) []boundary.District {
	names := set.AllDistrictNames()
	out := make([]boundary.District, 0, len(names))
	for _, name := range names {
		if d, ok := set.District(name); ok {
			out = append(out, d)
		}
	}
	return out
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.Store.DatabaseURL == "" {
		return nil, eris.New("store: no database_url configured (set store.database_url)")
	}

	pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "store: create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping database")
	}

	zap.L().Debug("store: connected to database")
	return pool, nil
}
