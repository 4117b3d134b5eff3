package constraint

// BuiltinOptions configures the built-in constraint set.
type BuiltinOptions struct {
	// History backs the "history" constraint. When nil, the constraint is
	// still registered but any policy configuring it fails fast at
	// instantiation, surfacing the missing collaborator instead of silently
	// passing reused passwords.
	History HistoryChecker
}

// RegisterBuiltins registers every built-in constraint with the registry.
func RegisterBuiltins(r *Registry, opts BuiltinOptions) {
	r.Register("min_length", NewMinLength)
	r.Register("max_length", NewMaxLength)
	r.Register("character_classes", NewCharacterClasses)
	r.Register("dictionary", NewDictionary)
	r.Register("username_similarity", NewUsernameSimilarity)
	r.Register("consecutive_repeats", NewConsecutiveRepeats)
	r.Register("history", NewHistory(opts.History))
}
