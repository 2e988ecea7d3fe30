package session

import (
	"fmt"

	"github.com/chatfleet/fleethealth/health"
)

// NotifyTier is the severity of the one-line summary surfaced to the
// dashboard after a check.
type NotifyTier int

const (
	// NotifySuccess means every entity is healthy.
	NotifySuccess NotifyTier = iota
	// NotifyWarning means some entities are healthy and some are not.
	NotifyWarning
	// NotifyError means no entity is healthy.
	NotifyError
	// NotifyInfo means there is nothing to monitor.
	NotifyInfo
)

// String returns the string representation of the tier.
func (t NotifyTier) String() string {
	switch t {
	case NotifySuccess:
		return "success"
	case NotifyWarning:
		return "warning"
	case NotifyError:
		return "error"
	case NotifyInfo:
		return "info"
	default:
		return "info"
	}
}

// Notifier is the user-notification sink. Implementations are
// fire-and-forget: they must never block or influence control flow.
type Notifier interface {
	Notify(message string, tier NotifyTier)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(string, NotifyTier) {}

// SummaryTier derives the notification tier from fleet counts: all healthy
// is success, none healthy is error, an empty fleet is informational, and
// any other mix is a warning.
func SummaryTier(c health.Counts) NotifyTier {
	switch {
	case c.Total == 0:
		return NotifyInfo
	case c.Healthy == c.Total:
		return NotifySuccess
	case c.Healthy == 0:
		return NotifyError
	default:
		return NotifyWarning
	}
}

// SummaryMessage renders the one-line summary matching SummaryTier.
func SummaryMessage(c health.Counts) string {
	switch SummaryTier(c) {
	case NotifyInfo:
		return "no entities configured"
	case NotifySuccess:
		return fmt.Sprintf("all %d entities healthy", c.Total)
	case NotifyError:
		return fmt.Sprintf("no healthy entities (%d unhealthy of %d)", c.Unhealthy+c.Partial, c.Total)
	default:
		return fmt.Sprintf("%d of %d entities healthy (%d partial, %d unhealthy)",
			c.Healthy, c.Total, c.Partial, c.Unhealthy)
	}
}
