package retrytools_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Leopold1975/tutorials_control/internal/pkg/retrytools"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("down")

func TestPingEventuallySucceeds(t *testing.T) {
	calls := 0

	err := retrytools.Ping(context.Background(), retrytools.Policy{Delay: time.Millisecond, Timeout: time.Second},
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errDown
			}

			return nil
		})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestPingGivesUp(t *testing.T) {
	err := retrytools.Ping(context.Background(), retrytools.Policy{Delay: time.Millisecond, Timeout: time.Millisecond * 20},
		func(context.Context) error { return errDown })
	require.ErrorIs(t, err, errDown)
}

func TestPingContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retrytools.Ping(ctx, retrytools.DefaultPolicy(), func(context.Context) error { return errDown })
	require.Error(t, err)
}
