package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all daemon configuration. Values come from the
// environment; a .env file in the working directory is loaded first
// when present.
type Config struct {
	// Server
	ListenAddr string
	APIKey     string

	// Backend is the chatbot backend the probes target.
	Backend BackendConfig

	// Poll controls automatic periodic checks.
	Poll PollConfig

	// Log controls log output.
	Log LogConfig

	// Telemetry controls OpenTelemetry exporters.
	Telemetry TelemetryConfig

	// ServicesFile optionally names a YAML file listing extra services
	// to probe individually.
	ServicesFile string
}

// BackendConfig describes the probed backend.
type BackendConfig struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	RetryAttempts int
	MaxConcurrent int
}

// PollConfig controls the polling scheduler.
type PollConfig struct {
	Enabled  bool
	Interval time.Duration
}

// LogConfig controls log output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is "text" or "json".
	Format string
}

// TelemetryConfig selects the telemetry exporters.
type TelemetryConfig struct {
	TracingExporter string
	MetricsExporter string
	SampleRatio     float64
}

// Load reads configuration from the environment, applying defaults for
// everything except the backend base URL.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		APIKey:     getenv("API_KEY", ""),
		Backend: BackendConfig{
			BaseURL:       strings.TrimSuffix(getenv("BACKEND_BASE_URL", ""), "/"),
			Token:         getenv("BACKEND_TOKEN", ""),
			Timeout:       envDurSecs("BACKEND_TIMEOUT_SECS", 10),
			RetryAttempts: envInt("BACKEND_RETRY_ATTEMPTS", 2),
			MaxConcurrent: envInt("BACKEND_MAX_CONCURRENT", 4),
		},
		Poll: PollConfig{
			Enabled:  envBool("POLL_ENABLED", false),
			Interval: envDurSecs("POLL_INTERVAL_SECS", 300),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getenv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getenv("LOG_FORMAT", "text")),
		},
		Telemetry: TelemetryConfig{
			TracingExporter: getenv("TRACING_EXPORTER", "none"),
			MetricsExporter: getenv("METRICS_EXPORTER", "none"),
			SampleRatio:     envFloat("TRACING_SAMPLE_RATIO", 1.0),
		},
		ServicesFile: getenv("SERVICES_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return ErrMissingBackendURL
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPollInterval, c.Poll.Interval)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.ToLower(getenv(k, ""))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}

func envDurSecs(k string, def int) time.Duration {
	return time.Duration(envInt(k, def)) * time.Second
}
