package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Leopold1975/tutorials_control/internal/pkg/sqlitetools"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/userrepo"
	"github.com/Masterminds/squirrel"
)

type UsersSQLiteRepo struct {
	q sqlitetools.Querier
}

var sb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func New(q sqlitetools.Querier) UsersSQLiteRepo {
	return UsersSQLiteRepo{
		q: q,
	}
}

func (ur UsersSQLiteRepo) CreateUser(ctx context.Context, u models.User) (int, error) {
	query, args, err := userrepo.InsertQuery(sb, u).ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	var id int

	if err := ur.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if sqlitetools.IsUniqueViolation(err) {
			return 0, userrepo.ErrAlreadyExists
		}

		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (ur UsersSQLiteRepo) GetUser(ctx context.Context, username string) (models.User, error) {
	query, args, err := userrepo.GetQuery(sb, username).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	var u models.User

	if err := ur.q.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, userrepo.ErrNotFound
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}
