// Package database owns the schema: embedded goose migrations with the
// environment table prefix substituted at apply time.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// versionTable is suffixed to the table prefix so each environment tracks its own version.
const versionTable = "goose_db_version"

// OpenDB wraps a pgx pool in a database/sql handle for goose.
// Closing the returned DB does not close the pool.
func OpenDB(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}

func newProvider(db *sql.DB, prefix string) (*goose.Provider, error) {
	// Migrations reference ${TABLE_PREFIX} through goose ENVSUB.
	if err := os.Setenv("TABLE_PREFIX", prefix); err != nil {
		return nil, fmt.Errorf("set table prefix: %w", err)
	}

	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	store, err := goosedb.NewStore(goose.DialectPostgres, prefix+versionTable)
	if err != nil {
		return nil, fmt.Errorf("create version store: %w", err)
	}

	provider, err := goose.NewProvider("", db, fsys, goose.WithStore(store))
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *sql.DB, prefix string, logger *slog.Logger) error {
	provider, err := newProvider(db, prefix)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	for _, r := range results {
		logger.Info("migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	if len(results) == 0 {
		logger.Info("schema up to date", "prefix", prefix)
	}
	return nil
}

// Reset rolls every migration back, dropping the prefixed tables.
func Reset(ctx context.Context, db *sql.DB, prefix string, logger *slog.Logger) error {
	provider, err := newProvider(db, prefix)
	if err != nil {
		return err
	}

	results, err := provider.DownTo(ctx, 0)
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	logger.Info("schema reset", "prefix", prefix, "rolled_back", len(results))
	return nil
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB, prefix string) (int64, error) {
	provider, err := newProvider(db, prefix)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}
