package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/vesta/pkg/config"
	"mercator-hq/vesta/pkg/constraint"
	"mercator-hq/vesta/pkg/store"
	"mercator-hq/vesta/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vesta",
	Short: "Vesta - role-scoped credential policy engine",
	Long: `Vesta evaluates candidate passwords against role-applicable policies.

Policies bind an ordered list of constraint configurations (length, character
composition, dictionary, history, and more) to a set of roles. Vesta resolves
the policies applicable to a principal's effective roles, evaluates every
constraint, and reports an overall decision plus a per-constraint report.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configured file, falling back to defaults when the
// default config path does not exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !rootCmd.PersistentFlags().Changed("config") {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("config file %q does not exist", cfgFile)
	}
	return config.Load(cfgFile)
}

// newLogger builds the process logger from config and the verbose flag.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Writer:    os.Stderr,
	})
}

// openStore builds the configured policy store. The returned cleanup
// releases backend resources.
func openStore(cfg *config.Config, reg *constraint.Registry, logger *slog.Logger) (store.Reader, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemory(), func() {}, nil

	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil

	case "file":
		f, err := store.NewFile(store.FileConfig{
			Path:    cfg.Store.Path,
			Checker: reg,
			Logger:  logger,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.Store.Watch {
			if err := f.Watch(); err != nil {
				return nil, nil, err
			}
		}
		return f, func() { f.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
