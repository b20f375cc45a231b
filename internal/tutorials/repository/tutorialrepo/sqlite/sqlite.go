package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Leopold1975/tutorials_control/internal/pkg/sqlitetools"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	repo "github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo"
	"github.com/Masterminds/squirrel"
)

// TutorialsSQLiteRepo runs every statement on q, which may be a
// transaction owned by the caller.
type TutorialsSQLiteRepo struct {
	q sqlitetools.Querier
}

var sb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func New(q sqlitetools.Querier) TutorialsSQLiteRepo {
	return TutorialsSQLiteRepo{
		q: q,
	}
}

func (tr TutorialsSQLiteRepo) CreateTutorial(ctx context.Context, t models.Tutorial) (int64, error) {
	query, args, err := repo.InsertQuery(sb, t).ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	var id int64

	if err := tr.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (tr TutorialsSQLiteRepo) GetTutorial(ctx context.Context, id int64) (models.Tutorial, error) {
	query, args, err := repo.GetQuery(sb, id).ToSql()
	if err != nil {
		return models.Tutorial{}, fmt.Errorf("to sql error: %w", err)
	}

	t, err := repo.Scan(tr.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tutorial{}, repo.ErrNotFound
		}

		return models.Tutorial{}, fmt.Errorf("scan error: %w", err)
	}

	return t, nil
}

func (tr TutorialsSQLiteRepo) UpdateTutorial(ctx context.Context, t models.Tutorial) error {
	query, args, err := repo.UpdateQuery(sb, t).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	return tr.execAffecting(ctx, query, args)
}

func (tr TutorialsSQLiteRepo) DeleteTutorial(ctx context.Context, id int64) error {
	query, args, err := repo.DeleteQuery(sb, id).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	return tr.execAffecting(ctx, query, args)
}

func (tr TutorialsSQLiteRepo) ListTutorials(ctx context.Context, req repo.ListRequest) ([]models.Tutorial, error) {
	query, args, err := repo.ListQuery(sb, req).ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tr.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	tutorials := make([]models.Tutorial, 0, 10) //nolint:gomnd

	for rows.Next() {
		t, err := repo.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error %w", err)
		}

		tutorials = append(tutorials, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tutorials, nil
}

func (tr TutorialsSQLiteRepo) execAffecting(ctx context.Context, query string, args []interface{}) error {
	res, err := tr.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	if n == 0 {
		return repo.ErrNotFound
	}

	return nil
}
