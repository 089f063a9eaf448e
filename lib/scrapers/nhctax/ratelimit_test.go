package nhctax

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterSpacing(t *testing.T) {
	const delay = 30 * time.Millisecond
	limiter := newRateLimiter(true, delay)

	var mu sync.Mutex
	var released []time.Time
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := limiter.acquire(context.Background())
			require.NoError(t, err)
			mu.Lock()
			released = append(released, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(released, func(i, j int) bool { return released[i].Before(released[j]) })
	for i := 1; i < len(released); i++ {
		spacing := released[i].Sub(released[i-1])
		require.GreaterOrEqual(t, spacing, delay-time.Millisecond,
			"releases %d and %d too close together", i-1, i)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(false, time.Hour)

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.acquire(context.Background()))
	}
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiterDeadline(t *testing.T) {
	limiter := newRateLimiter(true, time.Minute)
	require.NoError(t, limiter.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := limiter.acquire(ctx)
	require.ErrorIs(t, err, ErrRateLimitTimeout)
}
