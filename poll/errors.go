package poll

import "errors"

var (
	// ErrInvalidInterval is returned when Start is given a non-positive interval.
	ErrInvalidInterval = errors.New("poll: interval must be positive")

	// ErrNilTick is returned when Start is given a nil callback.
	ErrNilTick = errors.New("poll: onTick callback must not be nil")
)
