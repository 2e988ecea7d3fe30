package resilience

import "errors"

var (
	// ErrTimeout is returned when a probe exceeds its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrRateLimited is returned when a re-check is rejected by the limiter.
	ErrRateLimited = errors.New("resilience: rate limit exceeded")
)
