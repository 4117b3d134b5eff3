package credential

import "context"

// Resolver computes the set of policies applicable to a role set.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the deduplicated set of policies applicable to any of the
// given roles. Each role is queried independently and the results unioned; a
// policy matched under several roles appears once, keeping its first-match
// insertion position. Empty role identifiers are skipped without a query.
// Zero matches is not an error: the result is simply empty.
func (r *Resolver) Resolve(ctx context.Context, roles []RoleID) (*ApplicablePolicySet, error) {
	set := NewApplicablePolicySet()

	for _, role := range roles {
		if role == "" {
			continue
		}

		policies, err := r.store.FindByRole(ctx, role)
		if err != nil {
			return nil, &ResolveError{Role: role, Cause: err}
		}

		for _, p := range policies {
			set.Add(p)
		}
	}

	return set, nil
}
