package userrepo

import (
	"errors"

	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Masterminds/squirrel"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

func InsertQuery(sb squirrel.StatementBuilderType, u models.User) squirrel.InsertBuilder {
	return sb.Insert("users").
		Columns("username", "password_hash", "user_role").
		Values(u.Username, u.PasswordHash, u.Role).
		Suffix("RETURNING id")
}

func GetQuery(sb squirrel.StatementBuilderType, username string) squirrel.SelectBuilder {
	return sb.Select("id", "username", "password_hash", "user_role").
		From("users").
		Where(squirrel.Eq{"username": username})
}
