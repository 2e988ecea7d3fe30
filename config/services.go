package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Service names one backend service to probe individually.
type Service struct {
	// Name is the service identifier used in probe paths and the store.
	Name string `yaml:"name"`

	// Endpoint optionally overrides the probe URL for this service.
	Endpoint string `yaml:"endpoint,omitempty"`
}

type servicesFile struct {
	Services []Service `yaml:"services"`
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadServices reads a YAML services file. `${VAR}` references in the
// file are expanded from the environment before parsing; any missing
// variable is an error rather than a silent empty string.
func LoadServices(path string) ([]Service, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read services file: %w", err)
	}

	expanded, err := expandEnvStrict(string(raw))
	if err != nil {
		return nil, err
	}

	var file servicesFile
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("config: parse services file: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Services))
	for _, svc := range file.Services {
		if svc.Name == "" {
			return nil, fmt.Errorf("config: services file: service with empty name")
		}
		if _, dup := seen[svc.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateService, svc.Name)
		}
		seen[svc.Name] = struct{}{}
	}
	return file.Services, nil
}

// expandEnvStrict expands ${VAR} references, erroring when a referenced
// variable is absent. `$$` emits a literal `$`.
func expandEnvStrict(s string) (string, error) {
	const dollarSentinel = "\x00FLEETHEALTH_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(s, -1) {
		key := match[1]
		if _, ok := os.LookupEnv(key); !ok {
			missing[key] = struct{}{}
		}
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("%w: %s", ErrMissingEnvVars, strings.Join(keys, ", "))
	}

	s = envVarPattern.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(ref)[1])
	})
	s = strings.ReplaceAll(s, dollarSentinel, "$")
	return s, nil
}
