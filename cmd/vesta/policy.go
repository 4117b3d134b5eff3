package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mercator-hq/vesta/pkg/constraint"
	"mercator-hq/vesta/pkg/credential"
)

var policyFlags struct {
	format string
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect stored policies",
	Long: `Inspect the policies held by the configured store.

Subcommands:
  list - List all stored policies
  show - Show one policy in full

Examples:
  # List every policy with its roles
  vesta policy list

  # Show a single policy, constraints included
  vesta policy show baseline

  # Emit JSON for scripting
  vesta policy show baseline --format json`,
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored policies",
	RunE:  runPolicyList,
}

var policyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one policy in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runPolicyShow,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyListCmd, policyShowCmd)

	policyCmd.PersistentFlags().StringVar(&policyFlags.format, "format", "text", "output format: text, json")
}

func runPolicyList(cmd *cobra.Command, args []string) error {
	policies, cleanup, err := loadPolicies(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if policyFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(policies)
	}

	if len(policies) == 0 {
		fmt.Println("No policies stored")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tROLES\tCONSTRAINTS")
	for _, p := range policies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Label, joinRoles(p.Roles), len(p.Constraints))
	}
	return tw.Flush()
}

func runPolicyShow(cmd *cobra.Command, args []string) error {
	policies, cleanup, err := loadPolicies(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	var found *credential.Policy
	for i := range policies {
		if policies[i].ID == args[0] {
			found = &policies[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("policy %q not found", args[0])
	}

	if policyFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}

	fmt.Printf("Policy:\n")
	fmt.Printf("  ID:    %s\n", found.ID)
	fmt.Printf("  Label: %s\n", found.Label)
	fmt.Printf("  Roles: %s\n", joinRoles(found.Roles))
	fmt.Printf("  Constraints:\n")
	for _, c := range found.Constraints {
		fmt.Printf("    - %s", c.ID)
		if len(c.Params) > 0 {
			params, err := json.Marshal(c.Params)
			if err != nil {
				return fmt.Errorf("failed to render constraint params: %w", err)
			}
			fmt.Printf(" %s", params)
		}
		fmt.Println()
	}
	return nil
}

// loadPolicies opens the configured store and reads every policy. The
// returned cleanup releases the store.
func loadPolicies(ctx context.Context) ([]credential.Policy, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	registry := constraint.NewRegistry()
	constraint.RegisterBuiltins(registry, constraint.BuiltinOptions{})

	reader, cleanup, err := openStore(cfg, registry, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	policies, err := reader.List(ctx)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to list policies: %w", err)
	}
	return policies, cleanup, nil
}

func joinRoles(roles []credential.RoleID) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += ", "
		}
		out += string(r)
	}
	return out
}
