package redistools

import (
	"context"
	"fmt"

	"github.com/Leopold1975/tutorials_control/internal/pkg/retrytools"
	"github.com/redis/go-redis/v9"
)

func Connect(ctx context.Context, rdb *redis.Client) error {
	err := retrytools.Ping(ctx, retrytools.DefaultPolicy(), func(ctx context.Context) error {
		return rdb.Ping(ctx).Err() //nolint:wrapcheck
	})
	if err != nil {
		return fmt.Errorf("cannot ping redis db error: %w", err)
	}

	return nil
}
