package digest

import (
	"context"
	"time"
)

// Limiter enforces a minimum interval between consecutive calls. It is
// not safe for concurrent use; the digest run is sequential.
type Limiter struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	last     time.Time
}

// NewLimiter creates a limiter with the given minimum interval.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until the minimum interval since the previous call has
// elapsed, then records the current call. The first call never waits.
// Returns the context error if cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	if !l.last.IsZero() {
		if wait := l.interval - l.now().Sub(l.last); wait > 0 {
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	l.last = l.now()
	return nil
}

// Reset forgets the previous call so the next Wait returns immediately.
func (l *Limiter) Reset() {
	l.last = time.Time{}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
