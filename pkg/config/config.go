// Package config loads and validates vesta's YAML configuration.
//
// Configuration is loaded from a file, filled with defaults, optionally
// overridden from VESTA_* environment variables, and validated before use.
package config

// Config is the root configuration.
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Store      StoreConfig      `yaml:"store"`
	Audit      AuditConfig      `yaml:"audit"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ValidationConfig configures the policy engine.
type ValidationConfig struct {
	// MaxPasswordLength is the platform ceiling above which policy
	// evaluation is bypassed.
	MaxPasswordLength int `yaml:"max_password_length"`

	// ChangedMessage overrides the generic "policy changed, re-enter"
	// report message.
	ChangedMessage string `yaml:"changed_message"`
}

// StoreConfig configures the policy store backend.
type StoreConfig struct {
	// Backend is one of "memory", "sqlite", "file".
	Backend string `yaml:"backend"`

	// Path is the database file (sqlite) or policy document (file).
	Path string `yaml:"path"`

	// Watch enables live reload of the file backend on document change.
	Watch bool `yaml:"watch"`
}

// AuditConfig configures the validation audit trail.
type AuditConfig struct {
	// Enabled turns audit recording on.
	Enabled bool `yaml:"enabled"`

	// DBPath is the audit database file. Empty keeps records in memory.
	DBPath string `yaml:"db_path"`

	// Buffer is the async recorder channel size.
	Buffer int `yaml:"buffer"`

	// RetentionDays is how long records are kept (0 = forever).
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the stored record count (0 = unlimited).
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for retention runs.
	PruneSchedule string `yaml:"prune_schedule"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric recording on.
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes metric names.
	Namespace string `yaml:"namespace"`
}
