package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Leopold1975/tutorials_control/internal/pkg/pgtools"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/userrepo"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/userrepo/postgres"
	"github.com/stretchr/testify/require"
)

func TestUsersPostgresRepo(t *testing.T) {
	dsn := os.Getenv("TUTORIALS_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TUTORIALS_POSTGRES_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()

	db, err := pgtools.Connect(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ctx, "TRUNCATE users RESTART IDENTITY")
	require.NoError(t, err)

	r := postgres.New(db)
	u := models.User{Username: "test_username", PasswordHash: "hash", Role: models.RoleUser}

	id, err := r.CreateUser(ctx, u)
	require.NoError(t, err)
	require.NotZero(t, id)

	_, err = r.CreateUser(ctx, u)
	require.ErrorIs(t, err, userrepo.ErrAlreadyExists)

	got, err := r.GetUser(ctx, "test_username")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)

	_, err = r.GetUser(ctx, "nobody")
	require.ErrorIs(t, err, userrepo.ErrNotFound)
}
