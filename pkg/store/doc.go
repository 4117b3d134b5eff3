// Package store provides policy store implementations backing the credential
// policy engine's credential.Store contract.
//
// Three backends are available:
//
//   - Memory: mutex-guarded in-memory store, the default for tests and
//     embedding. No persistence.
//   - SQLite: durable single-file storage with a role membership join table,
//     suitable for single-instance deployments.
//   - File: YAML policy documents with optional live reload on file change.
//
// All backends are safe for concurrent reads, which is the only access
// pattern the engine performs during evaluation. Put and Delete exist for
// the administrative surface (CLI, tests) and synchronize with readers.
package store
