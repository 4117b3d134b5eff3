// Package constraint provides the constraint registry and the built-in
// password constraints consumed by the credential policy engine.
//
// The Registry maps constraint identifiers to factory functions and
// implements credential.Factory. Registration happens at process startup;
// after that the registry is read-only and safe for concurrent use.
//
// Built-in constraints:
//
//   - min_length / max_length: rune-counted length bounds
//   - character_classes: required upper/lower/digit/special composition
//   - dictionary: rejects configured words, case-insensitive
//   - username_similarity: rejects passwords containing the username
//   - history: rejects reuse via an injected history checker
//   - consecutive_repeats: bounds runs of identical characters
//
// Parameters are validated when an instance is created, so malformed stored
// configuration surfaces as a credential.ConfigError at policy load or first
// evaluation, never as a silently-passing constraint.
package constraint
