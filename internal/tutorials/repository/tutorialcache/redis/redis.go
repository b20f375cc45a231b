package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/tutorials_control/internal/pkg/config"
	"github.com/Leopold1975/tutorials_control/internal/pkg/redistools"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/domain/models"
	"github.com/Leopold1975/tutorials_control/internal/tutorials/repository/tutorialrepo"
	"github.com/redis/go-redis/v9"
)

type TutorialCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

func New(ctx context.Context, cfg config.RedisCache) (TutorialCache, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := redistools.Connect(ctx, rdb); err != nil {
		rdb.Close()

		return TutorialCache{}, fmt.Errorf("connect error: %w", err)
	}

	return NewWithClient(rdb, cfg.ExpTime), nil
}

func NewWithClient(rdb *redis.Client, expTime time.Duration) TutorialCache {
	return TutorialCache{
		rdb:     rdb,
		expTime: expTime,
	}
}

func key(id int64) string {
	return fmt.Sprintf("tutorial:%d", id)
}

func (tc TutorialCache) SetTutorial(ctx context.Context, t models.Tutorial) error {
	tutorialJSON, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := tc.rdb.Set(ctx, key(t.ID), tutorialJSON, tc.expTime).Err(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (tc TutorialCache) GetTutorial(ctx context.Context, id int64) (models.Tutorial, error) {
	tutorialJSON, err := tc.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Tutorial{}, tutorialrepo.ErrNotFound
	} else if err != nil {
		return models.Tutorial{}, fmt.Errorf("get error: %w", err)
	}

	var t models.Tutorial

	if err := json.Unmarshal(tutorialJSON, &t); err != nil {
		return models.Tutorial{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return t, nil
}

func (tc TutorialCache) DeleteTutorial(ctx context.Context, id int64) error {
	deleted, err := tc.rdb.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	if deleted == 0 {
		return tutorialrepo.ErrNotFound
	}

	return nil
}

func (tc TutorialCache) Shutdown(_ context.Context) error {
	if err := tc.rdb.Close(); err != nil {
		return fmt.Errorf("close redis error: %w", err)
	}

	return nil
}
