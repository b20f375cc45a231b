package app_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Leopold1975/tutorials_control/internal/pkg/config"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/api/apiclient"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/app"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	return config.Config{
		Server: config.Server{
			Addr:         freeAddr(t),
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		},
		Logger:  config.Logger{Level: "error"},
		Storage: config.Storage{Driver: config.DriverSQLite},
		SQLite:  config.SQLite{Path: ":memory:"},
		Auth: config.Auth{
			TTL:           time.Hour,
			Secret:        "test-secret",
			AdminUsername: "Admin",
			AdminPassword: "1234",
		},
	}
}

func runApp(t *testing.T, cfg config.Config) *apiclient.Client {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	a, err := app.New(ctx, cfg)
	if err != nil {
		cancel()
		t.Fatalf("cannot get app error: %v", err)
	}

	done := make(chan struct{})

	go func() {
		a.Run(ctx) //nolint:errcheck
		close(done)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.Server.Addr + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, time.Second*5, time.Millisecond*20)

	client, err := apiclient.New("http://" + cfg.Server.Addr)
	require.NoError(t, err)

	return client
}

func TestAppSQLite(t *testing.T) {
	ctx := context.Background()
	client := runApp(t, testConfig(t))

	ok, err := client.Login(ctx, "Admin", "1234")
	require.NoError(t, err)
	require.True(t, ok)

	id, err := client.CreateTutorial(ctx, models.Tutorial{
		Title:       "Pytest",
		TutorialURL: "https://pytest-django.readthedocs.io/en/latest/index.html",
		Published:   true,
	})
	require.NoError(t, err)

	got, err := client.GetTutorial(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Pytest", got.Title)
}

func TestAppWithRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.RedisCache = config.RedisCache{Addr: mr.Addr(), ExpTime: time.Minute}

	client := runApp(t, cfg)

	ok, err := client.Login(ctx, "Admin", "1234")
	require.NoError(t, err)
	require.True(t, ok)

	id, err := client.CreateTutorial(ctx, models.Tutorial{
		Title:       "Pytest",
		TutorialURL: "https://pytest-django.readthedocs.io/en/latest/index.html",
		Published:   true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.True(t, mr.Exists("tutorial:1"))
}

func TestAppUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "mongo"

	_, err := app.New(context.Background(), cfg)
	require.ErrorIs(t, err, config.ErrUnknownDriver)
}

func TestRunStopsWhenStartFails(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer busy.Close()

	cfg := testConfig(t)
	cfg.Server.Addr = busy.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	require.NoError(t, err)

	errCh := make(chan error, 1)

	go func() {
		errCh <- a.Run(ctx)
	}()

	select {
	case err := <-errCh:
		require.ErrorContains(t, err, "listen and serve error")
	case <-time.After(time.Second * 5):
		t.Fatal("run did not return after start failure")
	}
}
