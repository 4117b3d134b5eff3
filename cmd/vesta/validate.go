package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/vesta/pkg/audit"
	"mercator-hq/vesta/pkg/config"
	"mercator-hq/vesta/pkg/constraint"
	"mercator-hq/vesta/pkg/credential"
	"mercator-hq/vesta/pkg/telemetry/metrics"
)

var validateFlags struct {
	user          string
	roles         []string
	newRoles      []string
	password      string
	passwordStdin bool
	quiet         bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a password against applicable policies",
	Long: `Validate a candidate password against every policy applicable to the
principal's roles.

The password is read from stdin with --password-stdin (recommended) or from
--password (visible in process listings; use for testing only). Pass
--new-roles to simulate a role change happening in the same operation:
with an empty password and newly-applicable policies this forces failure,
modelling "policy changed, please re-enter".

Exit status is 0 when the password satisfies every applicable policy and
1 when it does not.

Examples:
  # Validate against current roles
  echo -n "s3cret!" | vesta validate --user amara --roles editor --password-stdin

  # Simulate adding the admin role
  vesta validate --user amara --roles editor --new-roles editor,admin --password ""`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFlags.user, "user", "", "principal username (required)")
	validateCmd.Flags().StringSliceVar(&validateFlags.roles, "roles", nil, "principal's current roles")
	validateCmd.Flags().StringSliceVar(&validateFlags.newRoles, "new-roles", nil, "effective roles when membership is being changed")
	validateCmd.Flags().StringVar(&validateFlags.password, "password", "", "candidate password (testing only)")
	validateCmd.Flags().BoolVar(&validateFlags.passwordStdin, "password-stdin", false, "read the candidate password from stdin")
	validateCmd.Flags().BoolVarP(&validateFlags.quiet, "quiet", "q", false, "suppress the report, exit status only")
	validateCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(validateCmd)
}

// cliPrincipal satisfies credential.Principal from command-line flags.
type cliPrincipal struct {
	username string
	roles    []credential.RoleID
}

func (p *cliPrincipal) Username() string { return p.username }

func (p *cliPrincipal) CurrentRoles() []credential.RoleID { return p.roles }

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	password := validateFlags.password
	if validateFlags.passwordStdin {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password from stdin: %w", err)
		}
		password = strings.TrimRight(string(data), "\r\n")
	}

	reg := constraint.NewRegistry()
	constraint.RegisterBuiltins(reg, constraint.BuiltinOptions{})

	policyStore, cleanup, err := openStore(cfg, reg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	validator, err := credential.NewValidator(policyStore, reg, &credential.ValidatorConfig{
		MaxPasswordLength: cfg.Validation.MaxPasswordLength,
		ChangedMessage:    cfg.Validation.ChangedMessage,
	}, logger)
	if err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		validator.SetMetrics(metrics.NewValidationMetrics(metrics.Config{Namespace: cfg.Metrics.Namespace}))
	}

	principal := &cliPrincipal{
		username: validateFlags.user,
		roles:    toRoleIDs(validateFlags.roles),
	}
	effective := toRoleIDs(validateFlags.newRoles)

	ctx := context.Background()
	start := time.Now()

	valid, err := validator.Validate(ctx, password, principal, effective)
	if err != nil {
		return err
	}

	// The report also feeds the audit record, so build it even under
	// --quiet when auditing is on.
	var rows []credential.ReportRow
	if !validateFlags.quiet || cfg.Audit.Enabled {
		rows, err = validator.BuildReport(ctx, password, principal, effective)
		if err != nil {
			return err
		}
	}
	if !validateFlags.quiet {
		printReport(cmd.OutOrStdout(), rows, valid)
	}

	if err := recordAudit(cfg, principal, effective, password == "", rows, valid, time.Since(start)); err != nil {
		// Audit trouble must not change the validation outcome.
		logger.Error("failed to record audit entry", "error", err)
	}

	if !valid {
		os.Exit(1)
	}
	return nil
}

func toRoleIDs(roles []string) []credential.RoleID {
	out := make([]credential.RoleID, 0, len(roles))
	for _, r := range roles {
		out = append(out, credential.RoleID(r))
	}
	return out
}

func printReport(w io.Writer, rows []credential.ReportRow, valid bool) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No applicable policies.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "POLICY\tCONSTRAINT\tSTATUS")
		for _, row := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", row.PolicyLabel, row.ConstraintSummary, row.Status)
		}
		tw.Flush()
	}

	if valid {
		fmt.Fprintln(w, "\nResult: valid")
	} else {
		fmt.Fprintln(w, "\nResult: INVALID")
	}
}

// recordAudit writes one audit record when auditing is enabled.
func recordAudit(cfg *config.Config, principal *cliPrincipal, effective []credential.RoleID, emptyPassword bool, rows []credential.ReportRow, valid bool, duration time.Duration) error {
	if !cfg.Audit.Enabled {
		return nil
	}

	var storage audit.Storage
	var err error
	if cfg.Audit.DBPath != "" {
		storage, err = audit.NewSQLiteStorage(cfg.Audit.DBPath)
		if err != nil {
			return err
		}
	} else {
		storage = audit.NewMemoryStorage()
	}
	defer storage.Close()

	rec := buildAuditRecord(principal, effective, emptyPassword, rows, valid, duration)

	recorder := audit.NewRecorder(storage, &audit.RecorderConfig{Buffer: cfg.Audit.Buffer}, nil)
	recorder.Record(rec)
	return recorder.Close()
}

// buildAuditRecord derives the audit entry for one validation run. The
// role-change and forced flags use the engine's role set comparison, so
// passing --new-roles with the same membership does not count as a change.
func buildAuditRecord(principal *cliPrincipal, effective []credential.RoleID, emptyPassword bool, rows []credential.ReportRow, valid bool, duration time.Duration) *audit.Record {
	roles := effective
	if len(roles) == 0 {
		roles = principal.roles
	}

	roleChange := len(effective) > 0 && !credential.EqualRoleSets(effective, principal.roles)

	rec := &audit.Record{
		Username:        principal.username,
		Roles:           roles,
		RoleChange:      roleChange,
		Forced:          roleChange && emptyPassword && len(rows) > 0,
		PolicyCount:     countPolicies(rows),
		ConstraintCount: len(rows),
		Valid:           valid,
		Duration:        duration,
	}
	for _, row := range rows {
		if row.StatusClass == credential.StatusFailed {
			rec.FailedConstraints = append(rec.FailedConstraints, row.ConstraintSummary)
		}
	}
	return rec
}

func countPolicies(rows []credential.ReportRow) int {
	seen := make(map[string]struct{})
	for _, row := range rows {
		seen[row.PolicyLabel] = struct{}{}
	}
	return len(seen)
}
