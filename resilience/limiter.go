package resilience

import (
	"context"

	"golang.org/x/time/rate"
)

// LimiterConfig configures the token-bucket limiter guarding ad-hoc
// re-checks.
type LimiterConfig struct {
	// PerSecond is the sustained rate of operations allowed.
	// Default: 1
	PerSecond float64

	// Burst is the bucket size.
	// Default: 3
	Burst int
}

// Limiter is a token-bucket rate limiter backed by golang.org/x/time/rate.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter with defaults applied.
func NewLimiter(config LimiterConfig) *Limiter {
	if config.PerSecond <= 0 {
		config.PerSecond = 1
	}
	if config.Burst <= 0 {
		config.Burst = 3
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(config.PerSecond), config.Burst)}
}

// Allow reports whether one operation may proceed now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until a token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return ErrRateLimited
	}
	return nil
}
