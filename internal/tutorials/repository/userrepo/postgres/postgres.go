package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/tutorials_control/internal/pkg/pgtools"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/userrepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func New(db *pgxpool.Pool) UsersPostgresRepo {
	return UsersPostgresRepo{
		db: db,
	}
}

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User) (id int, err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	query, args, err := userrepo.InsertQuery(psql, u).ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) {
			// другие коды будут добавлены по необходимости.
			switch target.Code { //nolint:gocritic
			case "23505":
				return 0, userrepo.ErrAlreadyExists
			}
		}

		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (ur UsersPostgresRepo) GetUser(ctx context.Context, username string) (u models.User, err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return u, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get")
	}()

	query, args, err := userrepo.GetQuery(psql, username).ToSql()
	if err != nil {
		return u, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, userrepo.ErrNotFound
		}

		return u, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}
