package credential

import "context"

// Store is the persistence collaborator for policies. The engine only needs
// a read-only, per-role lookup; administrative CRUD belongs to the storage
// layer and is not part of this contract.
type Store interface {
	// FindByRole returns all policies whose role membership includes roleID.
	// A role with no matching policies returns an empty slice, not an error.
	FindByRole(ctx context.Context, roleID RoleID) ([]Policy, error)
}

// Constraint is a single pluggable rule evaluated against a candidate
// password. Implementations are expected to be pure and synchronous; a
// constraint that consults external state (e.g. a credential history store)
// blocks the caller, and any timeout discipline belongs to the enclosing
// request boundary.
type Constraint interface {
	// Validate evaluates the password for the given principal. Failure is
	// expressed through the Result, never through a panic or error: by the
	// time a constraint instance exists, its configuration has already been
	// validated by the Factory.
	Validate(password string, principal Principal) Result

	// Summary returns a human-readable description of the configured rule,
	// e.g. "Minimum length: 8". Used verbatim in report rows.
	Summary() string
}

// Factory instantiates constraints from stored configurations.
//
// Create fails with *UnknownConstraintError when id is not registered and
// with *ConfigError when params are malformed. Both are configuration
// defects in stored policy data and propagate to the caller; they are never
// folded into a validation result.
type Factory interface {
	Create(id string, params map[string]any) (Constraint, error)
}
