package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Leopold1975/tutorials_control/internal/pkg/config"
	"github.com/Leopold1975/tutorials_control/internal/pkg/pgtools"
	"github.com/Leopold1975/tutorials_control/internal/pkg/sqlitetools"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/api/server"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialcache"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialcache/redis"
	trpg "github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo/postgres"
	trsqlite "github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo/sqlite"
	urpg "github.com/Leopold1975/tutorials_control/internal/tutorials/repository/userrepo/postgres"
	ursqlite "github.com/Leopold1975/tutorials_control/internal/tutorials/repository/userrepo/sqlite"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/services/authservice"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/services/tutorialservice"
	"github.com/Leopold1975/tutorials_control/pkg/logger"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type cache interface {
	tutorialservice.Cache
	Shutdown(context.Context) error
}

type TutorialsApp struct {
	s       Server
	lg      logger.Logger
	cfg     config.Config
	cache   cache
	closers []func(context.Context) error
}

type repos struct {
	tutorials tutorialservice.Repository
	users     authservice.Repository
}

func New(ctx context.Context, cfg config.Config) (*TutorialsApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("can't get logger error: %w", err)
	}

	a := &TutorialsApp{
		lg:  lg,
		cfg: cfg,
	}

	r, err := a.openStorage(ctx)
	if err != nil {
		a.close(ctx) //nolint:errcheck

		return nil, err
	}

	a.cache = tutorialcache.Nop{}

	if cfg.RedisCache.Addr != "" {
		tc, err := redis.New(ctx, cfg.RedisCache)
		if err != nil {
			a.close(ctx) //nolint:errcheck

			return nil, fmt.Errorf("redis tutorial cache initializing error: %w", err)
		}

		a.cache = tc
	}

	a.closers = append(a.closers, a.cache.Shutdown)

	tutorialService := tutorialservice.New(r.tutorials, a.cache, lg)

	authService := authservice.New(r.users, cfg.Auth)

	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			a.close(ctx) //nolint:errcheck

			return nil, fmt.Errorf("ensure admin error: %w", err)
		}
	}

	a.s = server.New(cfg.Server, tutorialService, authService, lg)

	if cfg.RedisCache.Addr != "" {
		go tutorialService.BackgroundRefresh(ctx, cfg.RedisCache.ExpTime)
	}

	return a, nil
}

func (ta *TutorialsApp) openStorage(ctx context.Context) (repos, error) {
	switch ta.cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := pgtools.Connect(ctx, ta.cfg.PostgresDB.ConnString())
		if err != nil {
			return repos{}, fmt.Errorf("connect to postgres error: %w", err)
		}

		ta.closers = append(ta.closers, func(ctx context.Context) error {
			return pgtools.Close(ctx, db)
		})

		if err := pgtools.ApplyMigration(ta.cfg.PostgresDB); err != nil {
			return repos{}, fmt.Errorf("apply migration error: %w", err)
		}

		return repos{tutorials: trpg.New(db), users: urpg.New(db)}, nil
	case config.DriverSQLite:
		db, err := sqlitetools.Open(ctx, ta.cfg.SQLite.Path)
		if err != nil {
			return repos{}, fmt.Errorf("open sqlite error: %w", err)
		}

		ta.closers = append(ta.closers, func(context.Context) error {
			return closeSQL(db)
		})

		if err := sqlitetools.ApplyMigration(db); err != nil {
			return repos{}, fmt.Errorf("apply migration error: %w", err)
		}

		return repos{tutorials: trsqlite.New(db), users: ursqlite.New(db)}, nil
	default:
		return repos{}, fmt.Errorf("%w: %q", config.ErrUnknownDriver, ta.cfg.Storage.Driver)
	}
}

// Run serves until ctx is done or the server fails to start, then stops
// the app. A start failure is returned.
func (ta *TutorialsApp) Run(ctx context.Context) error {
	ta.lg.Infof("STARTED SERVER ON %s", ta.cfg.Server.Addr)

	errCh := make(chan error, 1)

	go func() {
		errCh <- ta.s.Start(ctx)
	}()

	var runErr error

	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		if runErr != nil {
			ta.lg.Errorf("server start error: %s", runErr.Error())
			runErr = fmt.Errorf("server start error: %w", runErr)
		}
	}

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ta.Stop(ctxS); err != nil { //nolint:contextcheck
		ta.lg.Errorf("shutdown error: %s", err.Error())

		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}

func (ta *TutorialsApp) Stop(ctx context.Context) error {
	if err := ta.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := ta.close(ctx); err != nil {
		return err
	}

	ta.lg.Info("Shutdowned successfully")
	ta.lg.Sync() //nolint:errcheck

	return nil
}

// close releases storages in reverse order of opening.
func (ta *TutorialsApp) close(ctx context.Context) error {
	var firstErr error

	for i := len(ta.closers) - 1; i >= 0; i-- {
		if err := ta.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close error: %w", err)
		}
	}

	ta.closers = nil

	return firstErr
}

func closeSQL(db *sql.DB) error {
	if err := db.Close(); err != nil {
		return fmt.Errorf("close sqlite error: %w", err)
	}

	return nil
}
