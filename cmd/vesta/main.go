// Vesta is a role-scoped credential policy engine.
//
// It evaluates candidate passwords against role-applicable policies stored
// in YAML documents or SQLite, producing an overall decision and a detailed
// per-constraint report.
//
// Usage:
//
//	# Validate a password read from stdin
//	echo -n "s3cret!" | vesta validate --user amara --roles editor --password-stdin
//
//	# Simulate adding a role during the same operation
//	vesta validate --user amara --roles editor --new-roles editor,admin --password-stdin
//
//	# Inspect stored policies
//	vesta policy list
//	vesta policy show baseline
//
//	# Inspect and maintain the audit trail
//	vesta audit list --user amara
//	vesta audit prune
//
//	# Show version information
//	vesta version
package main

func main() {
	Execute()
}
