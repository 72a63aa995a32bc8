package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/niksmo/e-market/internal/core/domain"
)

// sqldb is what the repositories need from [sql.DB]. The non-context
// methods keep it compatible with squirrel's BaseRunner.
type sqldb interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLDB struct {
	*sql.DB
}

// NewSQLDB opens the local database file, verifies availability and
// bootstraps the commerce schema.
func NewSQLDB(ctx context.Context, path string) (SQLDB, error) {
	const op = "SQLDB"
	log := slog.With("op", op)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return SQLDB{}, fmt.Errorf(
				"%s: %w: %v", op, domain.ErrStorage, err,
			)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}

	s := SQLDB{db}
	if err := s.PingContext(ctx); err != nil {
		return SQLDB{}, fmt.Errorf(
			"%s: %w: database is unavailable: %v", op, domain.ErrStorage, err,
		)
	}

	if err := createSchema(ctx, db); err != nil {
		return SQLDB{}, err
	}

	log.Info("database is available", "path", path)
	return s, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	const op = "SQLDB.createSchema"
	const schema = `
CREATE TABLE IF NOT EXISTS cart_items (
	product_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	brand TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL,
	product_created_at TEXT NOT NULL DEFAULT '',
	quantity INTEGER NOT NULL CHECK (quantity > 0),
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS favorite_items (
	product_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	brand TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL,
	product_created_at TEXT NOT NULL DEFAULT '',
	added_at TIMESTAMP NOT NULL
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	return nil
}

func (s SQLDB) Close() {
	const op = "SQLDB.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.DB.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}
