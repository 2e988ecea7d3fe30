package config

import "errors"

var (
	// ErrMissingBackendURL indicates BACKEND_BASE_URL was not set.
	ErrMissingBackendURL = errors.New("config: BACKEND_BASE_URL is required")

	// ErrInvalidPollInterval indicates a non-positive poll interval.
	ErrInvalidPollInterval = errors.New("config: poll interval must be positive")

	// ErrInvalidLogLevel indicates an unrecognized log level.
	ErrInvalidLogLevel = errors.New("config: invalid log level")

	// ErrInvalidLogFormat indicates an unrecognized log format.
	ErrInvalidLogFormat = errors.New("config: invalid log format")

	// ErrInvalidSampleRatio indicates a trace sample ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("config: sample ratio must be within [0, 1]")

	// ErrMissingEnvVars indicates a services file referenced environment
	// variables that are not set.
	ErrMissingEnvVars = errors.New("config: missing required environment variables")

	// ErrDuplicateService indicates two services in the services file
	// share a name.
	ErrDuplicateService = errors.New("config: duplicate service name")
)
