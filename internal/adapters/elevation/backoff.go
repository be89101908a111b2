package elevation

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Backoff computes exponential retry delays with 10% jitter.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// DefaultBackoff is used when a provider is built without one.
var DefaultBackoff = Backoff{Base: 250 * time.Millisecond, Max: 5 * time.Second}

// Delay returns the wait before retry number attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := time.Duration(float64(b.Base) * math.Pow(2, float64(attempt-1)))
	if delay > b.Max || delay <= 0 {
		delay = b.Max
	}
	jitter := time.Duration(rand.Float64() * 0.1 * float64(delay))
	return delay + jitter
}

// Wait sleeps for the delay of attempt or until ctx is done.
func (b Backoff) Wait(ctx context.Context, attempt int) error {
	t := time.NewTimer(b.Delay(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
