package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/tutorials_control/internal/pkg/pgtools"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	repo "github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TutorialsPostgresRepo struct {
	db *pgxpool.Pool
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func New(db *pgxpool.Pool) TutorialsPostgresRepo {
	return TutorialsPostgresRepo{
		db: db,
	}
}

func (tr TutorialsPostgresRepo) CreateTutorial(ctx context.Context, //nolint:nonamedreturns
	t models.Tutorial,
) (id int64, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	query, args, err := repo.InsertQuery(psql, t).ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (tr TutorialsPostgresRepo) GetTutorial(ctx context.Context, //nolint:nonamedreturns
	id int64,
) (t models.Tutorial, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return t, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get")
	}()

	query, args, err := repo.GetQuery(psql, id).ToSql()
	if err != nil {
		return t, fmt.Errorf("to sql error: %w", err)
	}

	t, err = repo.Scan(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, repo.ErrNotFound
		}

		return t, fmt.Errorf("scan error: %w", err)
	}

	return t, nil
}

func (tr TutorialsPostgresRepo) UpdateTutorial(ctx context.Context, t models.Tutorial) (err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update")
	}()

	query, args, err := repo.UpdateQuery(psql, t).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (tr TutorialsPostgresRepo) DeleteTutorial(ctx context.Context, id int64) (err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	query, args, err := repo.DeleteQuery(psql, id).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (tr TutorialsPostgresRepo) ListTutorials(ctx context.Context, //nolint:nonamedreturns
	req repo.ListRequest,
) (tutorials []models.Tutorial, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list")
	}()

	query, args, err := repo.ListQuery(psql, req).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	tutorials = make([]models.Tutorial, 0, 10) //nolint:gomnd

	for rows.Next() {
		t, err := repo.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error %w", err)
		}

		tutorials = append(tutorials, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tutorials, nil
}
