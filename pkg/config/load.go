package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file, applies defaults, applies
// VESTA_* environment variable overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies VESTA_SECTION_FIELD environment variables on top
// of the loaded configuration. Overrides always win over file values.
func applyEnvOverrides(cfg *Config) {
	setString := func(key string, target *string) {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}
	setInt := func(key string, target *int) {
		if v, ok := os.LookupEnv(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}
	setBool := func(key string, target *bool) {
		if v, ok := os.LookupEnv(key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				*target = b
			}
		}
	}

	setInt("VESTA_VALIDATION_MAX_PASSWORD_LENGTH", &cfg.Validation.MaxPasswordLength)
	setString("VESTA_VALIDATION_CHANGED_MESSAGE", &cfg.Validation.ChangedMessage)

	setString("VESTA_STORE_BACKEND", &cfg.Store.Backend)
	setString("VESTA_STORE_PATH", &cfg.Store.Path)
	setBool("VESTA_STORE_WATCH", &cfg.Store.Watch)

	setBool("VESTA_AUDIT_ENABLED", &cfg.Audit.Enabled)
	setString("VESTA_AUDIT_DB_PATH", &cfg.Audit.DBPath)
	setString("VESTA_AUDIT_PRUNE_SCHEDULE", &cfg.Audit.PruneSchedule)

	setString("VESTA_LOGGING_LEVEL", &cfg.Logging.Level)
	setString("VESTA_LOGGING_FORMAT", &cfg.Logging.Format)

	setBool("VESTA_METRICS_ENABLED", &cfg.Metrics.Enabled)
	setString("VESTA_METRICS_NAMESPACE", &cfg.Metrics.Namespace)
}
