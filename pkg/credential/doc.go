// Package credential implements the role-scoped credential policy engine.
//
// A Policy is a named collection of constraint configurations that applies to a
// set of roles. When a principal changes their password, the engine resolves
// every policy applicable to the principal's effective roles, instantiates each
// configured constraint through a Factory, and folds the per-constraint results
// into an overall pass/fail decision plus a structured report.
//
// # Architecture
//
// The engine uses a three-layer design:
//
//  1. Store - Persistence collaborator queried per role for matching policies
//  2. Factory - Turns a stored constraint configuration into a Constraint
//  3. Validator - Orchestrates resolution, constraint evaluation, and reporting
//
// # Evaluation Flow
//
//	password + principal (+ optional role override)
//	       ↓
//	Resolver (one Store query per effective role, deduplicated by policy id)
//	       ↓
//	For each applicable policy:
//	  For each constraint configuration:
//	    Create constraint → Validate(password, principal)
//	       ↓
//	Overall bool (Validate) or []ReportRow (BuildReport)
//
// # Basic Usage
//
//	reg := constraint.NewRegistry()
//	constraint.RegisterBuiltins(reg, constraint.BuiltinOptions{})
//
//	validator, err := credential.NewValidator(store, reg, nil, logger)
//	if err != nil {
//		return err
//	}
//	ok, err := validator.Validate(ctx, password, principal, nil)
//
// # Role-Change Semantics
//
// When the effective role set differs from the principal's persisted roles and
// the submitted password is empty, every applicable constraint is forced to
// fail. This models "a role was just added, new policies apply, but no new
// credential was supplied": the operation must not silently carry stale
// credential state past newly-applicable policy.
//
// # Thread Safety
//
// A Validator holds no mutable state and is safe for concurrent use as long as
// the Store supports concurrent reads. Each call resolves policies fresh; no
// results are cached across calls.
package credential
