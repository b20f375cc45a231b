package sqlitetools_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Leopold1975/tutorials_control/internal/pkg/sqlitetools"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()

	db, err := sqlitetools.Open(ctx, filepath.Join(t.TempDir(), "tutorials.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, sqlitetools.ApplyMigration(db))

	var count int

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tutorials`).Scan(&count)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()

	db, err := sqlitetools.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, sqlitetools.ApplyMigration(db))

	insert := `INSERT INTO users (username, password_hash) VALUES ('bob', 'x')`

	_, err = db.ExecContext(ctx, insert)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert)
	require.Error(t, err)
	require.True(t, sqlitetools.IsUniqueViolation(err))

	require.False(t, sqlitetools.IsUniqueViolation(errors.New("boom")))
}
