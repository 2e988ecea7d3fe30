package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the probe timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for one probe.
	// Default: 10 seconds
	Timeout time.Duration
}

// Timeout bounds the duration of probe operations. A timed-out probe is
// reported as ErrTimeout and treated by callers like any transport error.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a timeout wrapper with defaults applied.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Timeout{config: config}
}

// Duration returns the configured timeout.
func (t *Timeout) Duration() time.Duration {
	return t.config.Timeout
}

// Execute runs op under a context deadline. The operation must honor its
// context; there is no goroutine escape hatch for ops that ignore it.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	err := op(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
