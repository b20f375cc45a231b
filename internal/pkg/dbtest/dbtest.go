// Package dbtest provides the database fixture used by tests: an in-memory
// sqlite database with every migration applied and a transaction that is
// rolled back once the test finishes, so no test sees another test's rows.
package dbtest

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Leopold1975/tutorials_control/internal/pkg/sqlitetools"
)

// Open returns a migrated in-memory database closed on cleanup.
func Open(tb testing.TB) *sql.DB {
	tb.Helper()

	db, err := sqlitetools.Open(context.Background(), ":memory:")
	if err != nil {
		tb.Fatalf("open test db error: %v", err)
	}

	tb.Cleanup(func() { db.Close() })

	if err := sqlitetools.ApplyMigration(db); err != nil {
		tb.Fatalf("migrate test db error: %v", err)
	}

	return db
}

// DB returns a transaction on a fresh migrated database. The transaction is
// rolled back on cleanup.
func DB(tb testing.TB) *sql.Tx {
	tb.Helper()

	db := Open(tb)

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		tb.Fatalf("begin test transaction error: %v", err)
	}

	tb.Cleanup(func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			tb.Errorf("rollback test transaction error: %v", err)
		}
	})

	return tx
}
