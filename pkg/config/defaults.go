package config

import "mercator-hq/vesta/pkg/credential"

// Default returns a fully-defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Validation.MaxPasswordLength == 0 {
		cfg.Validation.MaxPasswordLength = credential.DefaultMaxPasswordLength
	}
	if cfg.Validation.ChangedMessage == "" {
		cfg.Validation.ChangedMessage = credential.DefaultChangedMessage
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}

	if cfg.Audit.Buffer == 0 {
		cfg.Audit.Buffer = 1000
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = 90
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "vesta"
	}
}
