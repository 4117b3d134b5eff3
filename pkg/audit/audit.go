package audit

import (
	"context"
	"time"

	"mercator-hq/vesta/pkg/credential"
)

// Record is the stored trace of one validation attempt. It carries metadata
// only; the candidate credential never enters this package.
type Record struct {
	// ID is a generated UUID.
	ID string

	// Time is when the validation completed.
	Time time.Time

	// Username identifies the principal.
	Username string

	// Roles is the effective role set of the evaluation.
	Roles []credential.RoleID

	// RoleChange marks evaluations where the effective roles differed from
	// the principal's persisted ones.
	RoleChange bool

	// PolicyCount is the number of applicable policies.
	PolicyCount int

	// ConstraintCount is the total number of evaluated constraints.
	ConstraintCount int

	// FailedConstraints lists the ids of constraints that reported invalid.
	FailedConstraints []string

	// Valid is the overall decision.
	Valid bool

	// Forced marks decisions flipped by the role-change rule rather than a
	// failing constraint.
	Forced bool

	// Duration is the evaluation wall time.
	Duration time.Duration
}

// Storage persists audit records.
type Storage interface {
	// Save persists one record.
	Save(ctx context.Context, rec *Record) error

	// List returns up to limit records for the given username, newest
	// first. An empty username returns records for all principals.
	List(ctx context.Context, username string, limit int) ([]*Record, error)

	// DeleteOlderThan removes records older than the cutoff and returns how
	// many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteOldest removes the n oldest records and returns how many were
	// deleted.
	DeleteOldest(ctx context.Context, n int64) (int64, error)

	// Close releases storage resources.
	Close() error
}
