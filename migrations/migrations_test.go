package migrations_test

import (
	"database/sql"
	"testing"

	"github.com/Leopold1975/tutorials_control/migrations"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}

func tableColumns(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int

	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?)`, table).Scan(&count)
	require.NoError(t, err)

	return count
}

func TestApplySQLite(t *testing.T) {
	db := openMemory(t)

	err := migrations.Apply(db, migrations.Options{Dialect: "sqlite3", Dir: migrations.SQLiteDir})
	require.NoError(t, err)

	require.Equal(t, 4, tableColumns(t, db, "users"))
	require.Equal(t, 7, tableColumns(t, db, "tutorials"))

	// second run is a no-op
	err = migrations.Apply(db, migrations.Options{Dialect: "sqlite3", Dir: migrations.SQLiteDir})
	require.NoError(t, err)
}

func TestApplySQLiteVersionAndReload(t *testing.T) {
	db := openMemory(t)

	err := migrations.Apply(db, migrations.Options{Dialect: "sqlite3", Dir: migrations.SQLiteDir, Version: 1})
	require.NoError(t, err)
	require.Equal(t, 4, tableColumns(t, db, "users"))
	require.Equal(t, 0, tableColumns(t, db, "tutorials"))

	err = migrations.Apply(db, migrations.Options{Dialect: "sqlite3", Dir: migrations.SQLiteDir, Reload: true})
	require.NoError(t, err)
	require.Equal(t, 7, tableColumns(t, db, "tutorials"))
}
