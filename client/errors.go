package client

import (
	"errors"
	"fmt"
)

// ErrMissingBaseURL indicates the client was configured without a backend URL.
var ErrMissingBaseURL = errors.New("client: base URL is required")

// TransportError is the typed failure of one probe: network error, non-2xx
// response, or malformed payload. The engine leaves the store untouched
// when it sees one.
type TransportError struct {
	// Endpoint is the probed URL path.
	Endpoint string

	// StatusCode is the HTTP status, or zero when no response arrived.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("client: probe %s failed with status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("client: probe %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying could help: network-level failures
// and 5xx responses are temporary, 4xx responses are not.
func (e *TransportError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}
