package observe

import "errors"

var (
	// ErrUnknownExporter indicates an unrecognized exporter name.
	ErrUnknownExporter = errors.New("observe: unknown exporter")

	// ErrEndpointNotConfigured indicates the OTLP endpoint env vars are unset.
	ErrEndpointNotConfigured = errors.New("observe: OTLP endpoint not configured")

	// ErrInvalidSampleRatio indicates a sample ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("observe: sample ratio must be between 0 and 1")
)
