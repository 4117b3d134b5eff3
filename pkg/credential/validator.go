package credential

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultMaxPasswordLength is the platform ceiling on credential length.
// Anything longer is rejected by a lower layer before it reaches this engine,
// so policy evaluation against it is skipped entirely.
const DefaultMaxPasswordLength = 4096

// DefaultChangedMessage is the report fallback used when a constraint fails
// without supplying its own message, or when a role change forces failure.
const DefaultChangedMessage = "Password policy has changed. Please enter a new password."

// ValidatorConfig contains configuration for the Validator.
type ValidatorConfig struct {
	// MaxPasswordLength is the ceiling above which evaluation is bypassed
	// and the password reported valid. Default: DefaultMaxPasswordLength.
	MaxPasswordLength int

	// ChangedMessage overrides the generic failure message in reports.
	// Default: DefaultChangedMessage.
	ChangedMessage string
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		MaxPasswordLength: DefaultMaxPasswordLength,
		ChangedMessage:    DefaultChangedMessage,
	}
}

// Validate checks the configuration.
func (c *ValidatorConfig) Validate() error {
	if c.MaxPasswordLength <= 0 {
		return fmt.Errorf("max password length must be positive, got %d", c.MaxPasswordLength)
	}
	return nil
}

// Metrics receives evaluation outcomes. Implemented by
// telemetry/metrics.ValidationMetrics; a nil Metrics disables recording.
type Metrics interface {
	// RecordEvaluation records one completed Validate or BuildReport call.
	RecordEvaluation(valid bool, forced bool, duration time.Duration)

	// RecordConstraintFailure records one failing constraint result.
	RecordConstraintFailure(constraintID string)
}

// Validator is the top-level credential policy engine. It holds no mutable
// state; one instance serves concurrent evaluations.
type Validator struct {
	resolver *Resolver
	factory  Factory
	config   *ValidatorConfig
	logger   *slog.Logger
	metrics  Metrics
}

// NewValidator creates a validator over the given store and constraint
// factory. A nil config uses defaults; a nil logger uses slog.Default().
func NewValidator(store Store, factory Factory, config *ValidatorConfig, logger *slog.Logger) (*Validator, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if factory == nil {
		return nil, fmt.Errorf("constraint factory cannot be nil")
	}
	if config == nil {
		config = DefaultValidatorConfig()
	}
	if config.ChangedMessage == "" {
		config.ChangedMessage = DefaultChangedMessage
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Validator{
		resolver: NewResolver(store),
		factory:  factory,
		config:   config,
		logger:   logger,
		metrics:  nil,
	}, nil
}

// SetMetrics attaches a metrics sink. Call before the validator is shared
// across goroutines.
func (v *Validator) SetMetrics(m Metrics) {
	v.metrics = m
}

// evaluation carries the per-call state shared by Validate and BuildReport.
type evaluation struct {
	applicable   *ApplicablePolicySet
	forceFailure bool
}

// prepare resolves applicable policies and computes the force-failure flag.
//
// Effective roles default to the principal's current roles when no override
// is supplied. The force-failure flag is set when the effective role set
// differs from the principal's persisted one, the submitted password is
// empty, and at least one policy applies: a role was just added, policies
// now bind, but no new credential accompanied the change.
func (v *Validator) prepare(ctx context.Context, password string, principal Principal, effectiveRoles []RoleID) (*evaluation, error) {
	effective := effectiveRoles
	if len(effective) == 0 {
		effective = principal.CurrentRoles()
	}

	applicable, err := v.resolver.Resolve(ctx, effective)
	if err != nil {
		return nil, err
	}

	original := principal.CurrentRoles()

	eval := &evaluation{applicable: applicable}
	if !EqualRoleSets(effective, original) && password == "" && applicable.Len() > 0 {
		eval.forceFailure = true
	}

	return eval, nil
}

// Validate reports whether the password satisfies every constraint of every
// policy applicable to the principal's effective roles.
//
// effectiveRoles overrides the principal's persisted roles for this call;
// pass nil when role membership is not being changed.
//
// All constraints are always evaluated; none short-circuits another. An empty
// password can never fail an individual constraint (the user did not submit a
// new credential), but a simultaneous role change forces the overall result
// to false so that newly-applicable policy is not silently bypassed.
//
// Errors indicate configuration or store defects, never a failed constraint.
func (v *Validator) Validate(ctx context.Context, password string, principal Principal, effectiveRoles []RoleID) (bool, error) {
	start := time.Now()

	// Overlong credentials are rejected below this layer; evaluating policy
	// against them would be meaningless and potentially expensive.
	if len(password) > v.config.MaxPasswordLength {
		v.logger.Debug("password exceeds platform maximum, bypassing policy evaluation",
			"length", len(password),
			"max_length", v.config.MaxPasswordLength,
		)
		return true, nil
	}

	eval, err := v.prepare(ctx, password, principal, effectiveRoles)
	if err != nil {
		return false, err
	}

	valid := true
	for _, policy := range eval.applicable.Policies() {
		for _, cfg := range policy.Constraints {
			c, err := v.factory.Create(cfg.ID, cfg.Params)
			if err != nil {
				return false, fmt.Errorf("policy %q: %w", policy.ID, err)
			}

			res := c.Validate(password, principal)
			if !res.Valid && v.metrics != nil {
				v.metrics.RecordConstraintFailure(cfg.ID)
			}

			if valid && password != "" && !res.Valid {
				valid = false
			} else if eval.forceFailure {
				valid = false
			}
		}
	}

	v.logger.Debug("credential validated",
		"user", principal.Username(),
		"valid", valid,
		"forced", eval.forceFailure,
		"policy_count", eval.applicable.Len(),
	)
	if v.metrics != nil {
		v.metrics.RecordEvaluation(valid, eval.forceFailure, time.Since(start))
	}

	return valid, nil
}

// BuildReport evaluates like Validate but returns one row per (policy,
// constraint) pair in policy-major, constraint-minor order, matching each
// policy's stored constraint order.
//
// The status text and the status class are computed from different
// conditions on purpose: the text shows "Fail" whenever a role change forces
// failure, while the class reflects only the constraint's own result, so
// renderers can still flag exactly which constraints the credential broke.
func (v *Validator) BuildReport(ctx context.Context, password string, principal Principal, effectiveRoles []RoleID) ([]ReportRow, error) {
	if len(password) > v.config.MaxPasswordLength {
		return nil, nil
	}

	eval, err := v.prepare(ctx, password, principal, effectiveRoles)
	if err != nil {
		return nil, err
	}

	var rows []ReportRow
	for _, policy := range eval.applicable.Policies() {
		for _, cfg := range policy.Constraints {
			c, err := v.factory.Create(cfg.ID, cfg.Params)
			if err != nil {
				return nil, fmt.Errorf("policy %q: %w", policy.ID, err)
			}

			res := c.Validate(password, principal)

			row := ReportRow{
				PolicyLabel:       policy.Label,
				ConstraintSummary: c.Summary(),
				StatusClass:       StatusPassed,
			}
			if !res.Valid {
				row.StatusClass = StatusFailed
			}

			if !eval.forceFailure && res.Valid {
				row.Status = "Pass"
			} else {
				message := res.Message
				if message == "" {
					message = v.config.ChangedMessage
				}
				row.Status = "Fail - " + message
			}

			rows = append(rows, row)
		}
	}

	return rows, nil
}

// EqualRoleSets compares two role lists as sets, ignoring order, duplicates,
// and empty identifiers. It is the comparison the validator uses to decide
// whether a role change is in progress.
func EqualRoleSets(a, b []RoleID) bool {
	return subset(a, b) && subset(b, a)
}

func subset(a, b []RoleID) bool {
	members := make(map[RoleID]struct{}, len(b))
	for _, r := range b {
		if r != "" {
			members[r] = struct{}{}
		}
	}
	for _, r := range a {
		if r == "" {
			continue
		}
		if _, ok := members[r]; !ok {
			return false
		}
	}
	return true
}
