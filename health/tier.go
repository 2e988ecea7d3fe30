package health

import "strings"

// EntityTier is the three-tier classification applied to fleet entities.
type EntityTier int

const (
	// TierHealthy indicates every configured check passed.
	TierHealthy EntityTier = iota
	// TierPartial indicates some checks passed and some failed.
	TierPartial
	// TierUnhealthy indicates the entity is unavailable or failing every check.
	TierUnhealthy
)

// String returns the string representation of the tier.
func (t EntityTier) String() string {
	switch t {
	case TierHealthy:
		return "healthy"
	case TierPartial:
		return "partial"
	case TierUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// ServiceTier is the four-tier classification applied to individual
// backend services.
type ServiceTier int

const (
	// ServiceHealthy indicates the service reports itself operational.
	ServiceHealthy ServiceTier = iota
	// ServiceWarning indicates the service reports degraded operation.
	ServiceWarning
	// ServiceError indicates the service reports a failure or an
	// unrecognized status.
	ServiceError
	// ServiceOffline indicates the service reports itself down.
	ServiceOffline
)

// String returns the string representation of the tier.
func (t ServiceTier) String() string {
	switch t {
	case ServiceHealthy:
		return "healthy"
	case ServiceWarning:
		return "warning"
	case ServiceError:
		return "error"
	case ServiceOffline:
		return "offline"
	default:
		return "error"
	}
}

// ClassifyEntity derives the tier of a fleet entity from its named checks
// and availability flag. An unavailable entity is always unhealthy; an
// available entity with no checks configured is trivially healthy.
//
// The result is a pure function of the inputs: two entities with identical
// checks and availability classify identically regardless of history.
func ClassifyEntity(checks map[string]bool, available bool) EntityTier {
	if !available {
		return TierUnhealthy
	}

	total := len(checks)
	if total == 0 {
		return TierHealthy
	}

	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}

	switch {
	case passed == total:
		return TierHealthy
	case passed == 0:
		return TierUnhealthy
	default:
		return TierPartial
	}
}

// ClassifyService maps a service-reported status string onto a ServiceTier.
// Matching is case-insensitive against a small fixed vocabulary; anything
// unrecognized falls back to ServiceError rather than failing, so one odd
// service cannot break the whole snapshot.
func ClassifyService(status string) ServiceTier {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "healthy", "operational":
		return ServiceHealthy
	case "warning", "degraded":
		return ServiceWarning
	case "down":
		return ServiceOffline
	default:
		return ServiceError
	}
}

// ClassifyServiceValue classifies a status value that may be either a
// boolean or a string, as backend payloads report both shapes. It returns
// the tier along with the raw string form preserved for display.
func ClassifyServiceValue(v any) (ServiceTier, string) {
	switch s := v.(type) {
	case bool:
		if s {
			return ServiceHealthy, "healthy"
		}
		return ServiceError, "error"
	case string:
		return ClassifyService(s), s
	case nil:
		return ServiceError, ""
	default:
		return ServiceError, ""
	}
}
