package credential

import "fmt"

// UnknownConstraintError indicates a stored policy references a constraint id
// that is not registered with the factory. This is a defect in stored policy
// data, not a user-facing validation failure.
type UnknownConstraintError struct {
	ID string
}

// Error returns the error message.
func (e *UnknownConstraintError) Error() string {
	return fmt.Sprintf("unknown constraint: %q", e.ID)
}

// ConfigError indicates a constraint configuration is malformed (missing or
// mistyped parameters). Raised at instantiation time so defects surface when
// policies are loaded, not mid-evaluation.
type ConfigError struct {
	ConstraintID string
	Param        string
	Message      string
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("constraint %q: invalid parameter %q: %s", e.ConstraintID, e.Param, e.Message)
	}
	return fmt.Sprintf("constraint %q: invalid configuration: %s", e.ConstraintID, e.Message)
}

// ResolveError indicates a policy store lookup failed during resolution.
// The underlying store error is propagated unmodified; retry policy, if any,
// belongs to the store collaborator.
type ResolveError struct {
	Role  RoleID
	Cause error
}

// Error returns the error message.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving policies for role %q: %v", e.Role, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ResolveError) Unwrap() error {
	return e.Cause
}
