package nhctax

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter spaces outbound requests against the portal with a
// minimum delay, process-wide across every mode. Callers reserve the
// next free slot under the lock so no caller is starved indefinitely.
type rateLimiter struct {
	enabled bool
	delay   time.Duration

	mu   sync.Mutex
	next time.Time
}

func newRateLimiter(enabled bool, delay time.Duration) *rateLimiter {
	return &rateLimiter{enabled: enabled, delay: delay}
}

func (r *rateLimiter) acquire(ctx context.Context) error {
	if !r.enabled || r.delay <= 0 {
		return nil
	}

	r.mu.Lock()
	now := time.Now()
	at := r.next
	if at.Before(now) {
		at = now
	}
	r.next = at.Add(r.delay)
	r.mu.Unlock()

	wait := at.Sub(now)
	if wait <= 0 {
		return nil
	}
	if deadline, ok := ctx.Deadline(); ok && deadline.Before(at) {
		return fmt.Errorf("%w: next slot in %s", ErrRateLimitTimeout, wait)
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrRateLimitTimeout, ctx.Err())
	}
}
