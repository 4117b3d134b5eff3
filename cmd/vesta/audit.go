package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/vesta/pkg/audit"
	"mercator-hq/vesta/pkg/config"
)

var auditFlags struct {
	user   string
	limit  int
	format string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and maintain the validation audit trail",
	Long: `Inspect and maintain the validation audit trail.

Subcommands:
  list  - Show recent audit records
  prune - Run one retention cycle

Examples:
  # Show the last 20 records for one principal
  vesta audit list --user amara --limit 20

  # Apply the configured retention settings once
  vesta audit prune`,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent audit records",
	RunE:  runAuditList,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Run one retention cycle",
	RunE:  runAuditPrune,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd, auditPruneCmd)

	auditCmd.PersistentFlags().StringVar(&auditFlags.format, "format", "text", "output format: text, json")
	auditListCmd.Flags().StringVar(&auditFlags.user, "user", "", "principal username (required)")
	auditListCmd.Flags().IntVar(&auditFlags.limit, "limit", 20, "number of records to show")
	auditListCmd.MarkFlagRequired("user")
}

func runAuditList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	storage, err := openAuditStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	records, err := storage.List(cmd.Context(), auditFlags.user, auditFlags.limit)
	if err != nil {
		return fmt.Errorf("failed to list audit records: %w", err)
	}

	if auditFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No audit records found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tUSER\tVALID\tFORCED\tPOLICIES\tFAILED")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%v\t%v\t%d\t%d\n",
			rec.Time.Format(time.RFC3339), rec.Username, rec.Valid, rec.Forced,
			rec.PolicyCount, len(rec.FailedConstraints))
	}
	return tw.Flush()
}

func runAuditPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	storage, err := openAuditStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	pruner, err := audit.NewPruner(storage, &audit.PrunerConfig{
		RetentionDays: cfg.Audit.RetentionDays,
		MaxRecords:    cfg.Audit.MaxRecords,
	}, logger)
	if err != nil {
		return err
	}

	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to prune audit records: %w", err)
	}

	fmt.Printf("Deleted %d audit record(s)\n", deleted)
	return nil
}

// openAuditStorage opens the configured audit backend. Audit must be enabled
// with a database path; the in-memory backend has nothing to inspect across
// processes.
func openAuditStorage(cfg *config.Config) (audit.Storage, error) {
	if !cfg.Audit.Enabled {
		return nil, fmt.Errorf("auditing is disabled (set audit.enabled: true)")
	}
	if cfg.Audit.DBPath == "" {
		return nil, fmt.Errorf("audit commands require a database path (set audit.db_path)")
	}
	return audit.NewSQLiteStorage(cfg.Audit.DBPath)
}
