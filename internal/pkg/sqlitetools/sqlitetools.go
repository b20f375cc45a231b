package sqlitetools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/tutorials_control/migrations"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite error: %w", err)
	}

	// every connection to :memory: gets a database of its own.
	if isMemory(path) {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("ping sqlite error: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()

		return nil, fmt.Errorf("enable foreign keys error: %w", err)
	}

	return db, nil
}

func ApplyMigration(db *sql.DB) error {
	err := migrations.Apply(db, migrations.Options{
		Dialect: "sqlite3",
		Dir:     migrations.SQLiteDir,
	})
	if err != nil {
		return fmt.Errorf("apply migrations error: %w", err)
	}

	return nil
}

func IsUniqueViolation(err error) bool {
	target := new(sqlite.Error)
	if errors.As(err, &target) {
		return target.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			target.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
