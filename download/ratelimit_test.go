package download_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslomka/wwdc/download"
)

func TestLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first request per host proceeds immediately", func(t *testing.T) {
		t.Parallel()

		l := download.NewLimiter(1)
		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), "a.example.com"))
		require.NoError(t, l.Wait(context.Background(), "b.example.com"))
		require.NoError(t, l.Wait(context.Background(), "c.example.com"))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("non-positive rate falls back to the default", func(t *testing.T) {
		t.Parallel()

		l := download.NewLimiter(0)
		require.NoError(t, l.Wait(context.Background(), "developer.apple.com"))

		// At the 1 rps default the second request to the same host
		// waits about a second, far past this deadline.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.Error(t, l.Wait(ctx, "developer.apple.com"))
	})

	t.Run("second request to same host honors canceled context", func(t *testing.T) {
		t.Parallel()

		l := download.NewLimiter(0.001)
		require.NoError(t, l.Wait(context.Background(), "slow.example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.Error(t, l.Wait(ctx, "slow.example.com"))
	})
}
