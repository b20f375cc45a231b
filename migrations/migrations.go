// Package migrations embeds the goose migrations for every supported
// storage driver. Each driver has its own directory inside FS.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

// goose keeps dialect and base FS in package globals.
var mu sync.Mutex

type Options struct {
	Dialect string
	Dir     string
	// Version 0 means the latest migration.
	Version int64
	// Reload rolls every migration back before applying them again.
	Reload bool
}

func Apply(db *sql.DB, opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(opts.Dialect); err != nil {
		return fmt.Errorf("goose set dialect error: %w", err)
	}

	if opts.Reload {
		if err := goose.DownTo(db, opts.Dir, 0); err != nil {
			return fmt.Errorf("goose down error: %w", err)
		}
	}

	if opts.Version == 0 {
		if err := goose.Up(db, opts.Dir); err != nil {
			return fmt.Errorf("goose up error: %w", err)
		}

		return nil
	}

	if err := goose.UpTo(db, opts.Dir, opts.Version); err != nil {
		return fmt.Errorf("goose up error: %w", err)
	}

	return nil
}
