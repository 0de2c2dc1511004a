// Package retry holds the backoff policy shared by every retrying call
// site, so retry behavior is configured once and testable.
package retry

import (
	"context"
	"time"
)

// Policy bounds retry behavior: at most MaxAttempts calls per target, with
// Schedule delays between consecutive attempts. When attempts outnumber
// schedule slots the last slot is reused.
type Policy struct {
	MaxAttempts int
	Schedule    []time.Duration
}

// DefaultPolicy mirrors the production schedule of 5s, 10s, 20s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Schedule:    []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second},
	}
}

// Delay returns the wait before retrying after the given zero-based attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if len(p.Schedule) == 0 {
		return 0
	}
	if attempt >= len(p.Schedule) {
		attempt = len(p.Schedule) - 1
	}
	if attempt < 0 {
		attempt = 0
	}
	return p.Schedule[attempt]
}

// Sleep blocks for the attempt's backoff slot. It returns early with the
// context error if ctx is cancelled, so a shutdown is not held up by a
// pending retry.
func (p Policy) Sleep(ctx context.Context, attempt int) error {
	d := p.Delay(attempt)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
