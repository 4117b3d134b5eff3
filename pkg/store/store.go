package store

import (
	"context"

	"mercator-hq/vesta/pkg/credential"
)

// Reader is the read side every backend implements: the engine's per-role
// lookup plus full enumeration for inspection tooling.
type Reader interface {
	credential.Store

	// List returns all stored policies in a stable order.
	List(ctx context.Context) ([]credential.Policy, error)
}

// Writer is the administrative surface of the mutable backends. The File
// backend is read-only and does not implement it; its policies are edited in
// the YAML document itself.
type Writer interface {
	// Put inserts or replaces a policy.
	Put(ctx context.Context, p credential.Policy) error

	// Delete removes a policy. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
