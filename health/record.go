package health

import (
	"sort"
	"time"
)

// Kind distinguishes the two monitored entity families. The tier
// vocabulary applied during classification depends on the kind.
type Kind int

const (
	// KindTenant is a tenant company on the chatbot backend.
	KindTenant Kind = iota
	// KindService is one of the backend's own services.
	KindService
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTenant:
		return "tenant"
	case KindService:
		return "service"
	default:
		return "tenant"
	}
}

// EntityRecord is the last-known health of one monitored entity.
//
// The tier is never stored; it is recomputed from Checks, Available and
// RawStatus on demand via Tier or ServiceStatus.
type EntityRecord struct {
	// ID is the stable unique identifier of the entity.
	ID string `json:"id"`

	// DisplayName is an optional human label.
	DisplayName string `json:"display_name,omitempty"`

	// Kind is the entity family (tenant or service).
	Kind Kind `json:"-"`

	// Checks is the named set of boolean sub-results from the last probe.
	// The set of names is not fixed; payloads may report any subset.
	Checks map[string]bool `json:"checks,omitempty"`

	// Available reports whether the entity was reachable at all,
	// independent of individual check outcomes.
	Available bool `json:"available"`

	// RawStatus preserves the status string a service reported, including
	// unrecognized values, for display.
	RawStatus string `json:"raw_status,omitempty"`

	// ResponseTimeMs is the latency of the last probe, when measured.
	ResponseTimeMs *float64 `json:"response_time_ms,omitempty"`

	// LastCheckedAt is when the entity was last probed, successfully or not.
	LastCheckedAt time.Time `json:"last_checked_at"`

	// Errors lists human-readable error strings from the last probe.
	Errors []string `json:"errors,omitempty"`
}

// Tier classifies the record using the fleet-entity vocabulary.
func (r EntityRecord) Tier() EntityTier {
	return ClassifyEntity(r.Checks, r.Available)
}

// ServiceStatus classifies the record using the service vocabulary.
// Records without a raw status fall back to the availability flag.
func (r EntityRecord) ServiceStatus() ServiceTier {
	if r.RawStatus == "" {
		tier, _ := ClassifyServiceValue(r.Available)
		return tier
	}
	return ClassifyService(r.RawStatus)
}

// CheckNames returns the record's check names in sorted order, for
// deterministic display and logging.
func (r EntityRecord) CheckNames() []string {
	names := make([]string, 0, len(r.Checks))
	for name := range r.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clone returns a deep copy of the record so snapshots are independent
// of later store mutations.
func (r EntityRecord) clone() EntityRecord {
	out := r
	if r.Checks != nil {
		out.Checks = make(map[string]bool, len(r.Checks))
		for k, v := range r.Checks {
			out.Checks[k] = v
		}
	}
	if r.Errors != nil {
		out.Errors = append([]string(nil), r.Errors...)
	}
	if r.ResponseTimeMs != nil {
		ms := *r.ResponseTimeMs
		out.ResponseTimeMs = &ms
	}
	return out
}

// Patch carries the fields of a targeted re-check to merge into an
// existing record. Nil pointer fields are left untouched; a nil Checks
// map keeps the previous checks.
type Patch struct {
	DisplayName    *string
	Checks         map[string]bool
	Available      *bool
	RawStatus      *string
	ResponseTimeMs *float64
	Errors         []string
	HasErrors      bool
}

// apply shallow-merges the patch into the record.
func (p Patch) apply(r *EntityRecord) {
	if p.DisplayName != nil {
		r.DisplayName = *p.DisplayName
	}
	if p.Checks != nil {
		checks := make(map[string]bool, len(p.Checks))
		for k, v := range p.Checks {
			checks[k] = v
		}
		r.Checks = checks
	}
	if p.Available != nil {
		r.Available = *p.Available
	}
	if p.RawStatus != nil {
		r.RawStatus = *p.RawStatus
	}
	if p.ResponseTimeMs != nil {
		ms := *p.ResponseTimeMs
		r.ResponseTimeMs = &ms
	}
	if p.HasErrors || p.Errors != nil {
		r.Errors = append([]string(nil), p.Errors...)
	}
}
