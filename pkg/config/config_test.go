package config

import (
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/vesta/pkg/credential"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: memory\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Validation.MaxPasswordLength != credential.DefaultMaxPasswordLength {
		t.Errorf("MaxPasswordLength = %d, want %d",
			cfg.Validation.MaxPasswordLength, credential.DefaultMaxPasswordLength)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %s/%s, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Audit.Buffer != 1000 || cfg.Audit.RetentionDays != 90 {
		t.Errorf("audit defaults = %d/%d, want 1000/90", cfg.Audit.Buffer, cfg.Audit.RetentionDays)
	}
}

func TestLoad_FullDocument(t *testing.T) {
	path := writeConfig(t, `
validation:
  max_password_length: 128
  changed_message: "Policy changed."
store:
  backend: file
  path: policies.yaml
  watch: true
audit:
  enabled: true
  db_path: audit.db
  retention_days: 30
  max_records: 10000
  prune_schedule: "0 3 * * *"
logging:
  level: debug
  format: text
metrics:
  enabled: true
  namespace: custom
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Validation.MaxPasswordLength != 128 {
		t.Errorf("MaxPasswordLength = %d, want 128", cfg.Validation.MaxPasswordLength)
	}
	if cfg.Store.Backend != "file" || !cfg.Store.Watch {
		t.Errorf("store = %s/watch:%v, want file/true", cfg.Store.Backend, cfg.Store.Watch)
	}
	if cfg.Audit.PruneSchedule != "0 3 * * *" {
		t.Errorf("PruneSchedule = %q", cfg.Audit.PruneSchedule)
	}
	if cfg.Metrics.Namespace != "custom" {
		t.Errorf("Namespace = %q, want custom", cfg.Metrics.Namespace)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")

	t.Setenv("VESTA_LOGGING_LEVEL", "debug")
	t.Setenv("VESTA_VALIDATION_MAX_PASSWORD_LENGTH", "256")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug (env override)", cfg.Logging.Level)
	}
	if cfg.Validation.MaxPasswordLength != 256 {
		t.Errorf("MaxPasswordLength = %d, want 256 (env override)", cfg.Validation.MaxPasswordLength)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Store.Backend = "sqlite"; c.Store.Path = "" }},
		{"watch without file backend", func(c *Config) { c.Store.Watch = true }},
		{"bad cron", func(c *Config) { c.Audit.PruneSchedule = "every day" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"negative retention", func(c *Config) { c.Audit.RetentionDays = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load(missing) error = nil, want error")
	}
}
