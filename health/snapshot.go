package health

import (
	"encoding/json"
	"time"
)

// FleetSnapshot is an immutable point-in-time aggregate view of the fleet,
// produced at the end of every health-check session. The entity table is a
// deep copy taken from the store when the snapshot was built; consumers
// never observe a half-updated view.
type FleetSnapshot struct {
	// Timestamp is when the snapshot was taken.
	Timestamp time.Time `json:"timestamp"`

	// CheckDuration is how long the producing check took end to end.
	CheckDuration time.Duration `json:"-"`

	// Entities is the full entity table at snapshot time.
	Entities map[string]EntityRecord `json:"entities"`

	// Counts is the fleet-wide tally over Entities.
	Counts Counts `json:"counts"`
}

// MarshalJSON emits the check duration in milliseconds; the native
// Duration encoding is nanoseconds, which no dashboard wants.
func (s FleetSnapshot) MarshalJSON() ([]byte, error) {
	type alias FleetSnapshot
	return json.Marshal(struct {
		alias
		CheckDurationMs float64 `json:"check_duration_ms"`
	}{
		alias:           alias(s),
		CheckDurationMs: float64(s.CheckDuration) / float64(time.Millisecond),
	})
}
