package retrytools

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultDelay   = time.Second
	defaultTimeout = time.Second * 10
)

type Policy struct {
	Delay   time.Duration
	Timeout time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Delay: defaultDelay, Timeout: defaultTimeout}
}

// Ping calls ping with a fibonacci backoff starting at p.Delay until it
// succeeds, p.Timeout elapses or ctx is done.
func Ping(ctx context.Context, p Policy, ping func(context.Context) error) error {
	b := retry.WithMaxDuration(p.Timeout, retry.NewFibonacci(p.Delay))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := ping(ctx); err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("ping error: %w", err)
	}

	return nil
}
