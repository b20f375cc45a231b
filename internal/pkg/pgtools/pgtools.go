package pgtools

import (
	"context"
	"fmt"

	"github.com/Leopold1975/tutorials_control/internal/pkg/config"
	"github.com/Leopold1975/tutorials_control/internal/pkg/retrytools"
	"github.com/Leopold1975/tutorials_control/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // driver for migrations
	"github.com/pressly/goose/v3"
)

// Connect creates a pool and pings it until the database answers.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool error: %w", err)
	}

	if err := retrytools.Ping(ctx, retrytools.DefaultPolicy(), db.Ping); err != nil {
		db.Close()

		return nil, fmt.Errorf("cannot ping db error: %w", err)
	}

	return db, nil
}

func ApplyMigration(cfg config.PostgresDB) error {
	dbM, err := goose.OpenDBWithDriver("pgx", cfg.MigrationConnString())
	if err != nil {
		return fmt.Errorf("goose open pgx db error: %w", err)
	}
	defer dbM.Close()

	err = migrations.Apply(dbM, migrations.Options{
		Dialect: "postgres",
		Dir:     migrations.PostgresDir,
		Version: int64(cfg.Version),
		Reload:  cfg.Reload,
	})
	if err != nil {
		return fmt.Errorf("apply migrations error: %w", err)
	}

	return nil
}

func CommitOrRollback(ctx context.Context, tx pgx.Tx, err error, where string) error {
	if err == nil {
		if errT := tx.Commit(ctx); errT != nil {
			err = fmt.Errorf("commit error: %w", errT)
		}
	} else {
		if errT := tx.Rollback(ctx); errT != nil {
			err = fmt.Errorf("%s error: %w rollback error: %w", where, err, errT)
		} else {
			err = fmt.Errorf("%s error: %w", where, err)
		}
	}

	return err
}

func Close(ctx context.Context, db *pgxpool.Pool) error {
	done := make(chan struct{})

	go func() {
		db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}
