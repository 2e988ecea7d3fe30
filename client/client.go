package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chatfleet/fleethealth/health"
)

// Client issues health probes against the backend. Implementations must be
// safe for concurrent use.
type Client interface {
	// CheckFleet requests the fleet-wide health summary.
	CheckFleet(ctx context.Context) (*FleetReport, error)

	// CheckEntity requests the health detail of a single tenant company.
	CheckEntity(ctx context.Context, id string) (*EntityReport, error)

	// CheckService requests the health detail of a single backend service.
	CheckService(ctx context.Context, name string) (*ServiceReport, error)

	// CheckServices probes several services concurrently, returning one
	// report per requested name or the first error.
	CheckServices(ctx context.Context, names []string) (map[string]*ServiceReport, error)
}

// StatusValue is a service status that backends report either as a boolean
// or as a string. Both JSON shapes decode without error; anything else is
// rejected.
type StatusValue struct {
	// Raw is the string form of the status, preserved verbatim for
	// display even when unrecognized.
	Raw string

	// FromBool records that the payload carried a boolean.
	FromBool bool

	// Bool is the boolean value when FromBool is set.
	Bool bool
}

// UnmarshalJSON accepts a JSON string or boolean.
func (v *StatusValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StatusValue{Raw: s}
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		_, raw := health.ClassifyServiceValue(b)
		*v = StatusValue{Raw: raw, FromBool: true, Bool: b}
		return nil
	}

	return fmt.Errorf("client: status must be a string or boolean, got %s", data)
}

// MarshalJSON re-emits the original shape.
func (v StatusValue) MarshalJSON() ([]byte, error) {
	if v.FromBool {
		return json.Marshal(v.Bool)
	}
	return json.Marshal(v.Raw)
}

// Tier classifies the status using the service vocabulary.
func (v StatusValue) Tier() health.ServiceTier {
	if v.FromBool {
		tier, _ := health.ClassifyServiceValue(v.Bool)
		return tier
	}
	return health.ClassifyService(v.Raw)
}

// FleetReport is the fleet-wide summary payload. Depending on which fleet
// is probed it carries backend services, the database, tenant companies,
// or any combination.
type FleetReport struct {
	Status    StatusValue              `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Services  map[string]ServiceReport `json:"services,omitempty"`
	Database  *ServiceReport           `json:"database,omitempty"`
	Companies []CompanyReport          `json:"companies,omitempty"`
}

// ServiceReport is one backend service's health detail.
type ServiceReport struct {
	Status         StatusValue `json:"status"`
	ResponseTimeMs *float64    `json:"response_time_ms,omitempty"`
	Errors         []string    `json:"errors,omitempty"`
}

// CompanyReport is one tenant company's health inside a fleet summary.
type CompanyReport struct {
	ID             string          `json:"id"`
	Name           string          `json:"name,omitempty"`
	Available      bool            `json:"available"`
	Checks         map[string]bool `json:"checks,omitempty"`
	ResponseTimeMs *float64        `json:"response_time_ms,omitempty"`
	Errors         []string        `json:"errors,omitempty"`
}

// EntityReport is a single tenant's health detail from a targeted re-check.
type EntityReport struct {
	Available      bool            `json:"available"`
	Checks         map[string]bool `json:"checks,omitempty"`
	ResponseTimeMs *float64        `json:"response_time_ms,omitempty"`
	Errors         []string        `json:"errors,omitempty"`
}
