package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for consistency.
func Validate(cfg *Config) error {
	if cfg.Validation.MaxPasswordLength <= 0 {
		return fmt.Errorf("validation.max_password_length must be positive, got %d",
			cfg.Validation.MaxPasswordLength)
	}

	switch cfg.Store.Backend {
	case "memory":
	case "sqlite", "file":
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %q backend", cfg.Store.Backend)
		}
	default:
		return fmt.Errorf("store.backend must be one of memory, sqlite, file; got %q",
			cfg.Store.Backend)
	}
	if cfg.Store.Watch && cfg.Store.Backend != "file" {
		return fmt.Errorf("store.watch is only supported by the file backend")
	}

	if cfg.Audit.RetentionDays < 0 {
		return fmt.Errorf("audit.retention_days cannot be negative, got %d", cfg.Audit.RetentionDays)
	}
	if cfg.Audit.MaxRecords < 0 {
		return fmt.Errorf("audit.max_records cannot be negative, got %d", cfg.Audit.MaxRecords)
	}
	if cfg.Audit.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Audit.PruneSchedule); err != nil {
			return fmt.Errorf("audit.prune_schedule is not a valid cron expression: %w", err)
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q",
			cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text; got %q", cfg.Logging.Format)
	}

	return nil
}
