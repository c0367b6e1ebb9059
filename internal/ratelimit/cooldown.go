// Package ratelimit provides the process-wide throttle for outbound quote API calls.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between quote API calls.
const DefaultInterval = 15 * time.Second

// Cooldown enforces a minimum delay between consecutive outbound calls.
// The clock starts when a call completes (Mark), not when it is issued.
// A single Cooldown is shared by every caller of the API it guards.
type Cooldown struct {
	limiter  *rate.Limiter
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Cooldown
type Option func(*Cooldown)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(c *Cooldown) {
		c.now = now
	}
}

// WithSleep replaces the blocking wait used by Wait
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Cooldown) {
		c.sleep = sleep
	}
}

// NewCooldown creates a Cooldown; interval <= 0 uses DefaultInterval.
func NewCooldown(interval time.Duration, opts ...Option) *Cooldown {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Cooldown{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interval returns the configured spacing.
func (c *Cooldown) Interval() time.Duration {
	return c.interval
}

// Delay returns how long a caller would block in Wait right now.
func (c *Cooldown) Delay() time.Duration {
	tokens := c.limiter.TokensAt(c.now())
	if tokens >= 1 {
		return 0
	}
	return time.Duration((1 - tokens) * float64(c.interval))
}

// Wait blocks until the interval has elapsed since the last Mark, or ctx is done.
// It does not consume the slot; the caller must Mark once its call completes.
func (c *Cooldown) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := c.Delay()
		if d <= 0 {
			return nil
		}
		if err := c.sleep(ctx, d); err != nil {
			return err
		}
	}
}

// Mark records a completed call. The next Wait blocks for at least one
// full interval from now, even if Mark is called without a preceding Wait.
func (c *Cooldown) Mark() {
	c.limiter.ReserveN(c.now(), 1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
