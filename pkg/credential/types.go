package credential

// RoleID identifies a role in the external identity store.
type RoleID string

// Principal is the identity a credential change is being evaluated for.
// It is owned by the external identity store; the engine only reads from it.
type Principal interface {
	// Username returns the principal's login name. Constraints may use it
	// (e.g. to reject passwords containing the username).
	Username() string

	// CurrentRoles returns the principal's persisted role set.
	CurrentRoles() []RoleID
}

// Policy is a named, role-scoped collection of constraint configurations.
// Policies are read-only from the engine's point of view; their lifecycle is
// owned by the administrative/storage layer.
type Policy struct {
	// ID uniquely identifies the policy.
	ID string `yaml:"id" json:"id"`

	// Label is the display name used in reports.
	Label string `yaml:"label" json:"label"`

	// Roles is the set of role identifiers the policy applies to.
	Roles []RoleID `yaml:"roles" json:"roles"`

	// Constraints is the ordered list of constraint configurations.
	// Order matters only for report ordering, not for the decision.
	Constraints []ConstraintConfig `yaml:"constraints" json:"constraints"`
}

// ConstraintConfig selects and configures one constraint implementation.
type ConstraintConfig struct {
	// ID names the constraint implementation to instantiate.
	ID string `yaml:"id" json:"id"`

	// Params configures the instance (e.g. {"min": 8} for min_length).
	Params map[string]any `yaml:"params" json:"params"`
}

// Result is the outcome of evaluating a single constraint against a candidate
// password. It is a value object, produced per constraint per evaluation and
// never persisted.
type Result struct {
	// Valid reports whether the password satisfies the constraint.
	Valid bool

	// Message is the human-readable failure reason. Empty when Valid is true;
	// a constraint may also leave it empty on failure, in which case report
	// rows fall back to a generic message.
	Message string
}

// StatusClass classifies a report row for rendering purposes.
type StatusClass string

const (
	// StatusPassed marks a row whose constraint reported valid.
	StatusPassed StatusClass = "passed"

	// StatusFailed marks a row whose constraint reported invalid.
	StatusFailed StatusClass = "failed"
)

// ReportRow is one line of the detailed validation report: one (policy,
// constraint) pair in policy-major, constraint-minor order.
//
// Status and StatusClass are deliberately computed from different conditions:
// the status text reflects the force-failure flag (so a role change always
// shows "Fail" with a re-enter message), while the class reflects only the raw
// per-constraint result. A row can therefore read "Fail" while being classed
// as passed.
type ReportRow struct {
	// PolicyLabel is the display name of the policy the row belongs to.
	PolicyLabel string

	// Status is the rendered status text: "Pass", or "Fail - <message>".
	Status string

	// ConstraintSummary describes the configured rule (e.g. "Minimum length: 8").
	ConstraintSummary string

	// StatusClass classifies the row by the constraint's own result.
	StatusClass StatusClass
}

// ApplicablePolicySet is the deduplicated set of policies applicable to a role
// set, keyed by policy id. Insertion order is preserved (first match wins) so
// reports are stable for a given store snapshot; callers must not depend on
// any ordering beyond that.
type ApplicablePolicySet struct {
	ids      []string
	policies map[string]Policy
}

// NewApplicablePolicySet returns an empty set.
func NewApplicablePolicySet() *ApplicablePolicySet {
	return &ApplicablePolicySet{
		policies: make(map[string]Policy),
	}
}

// Add inserts a policy unless one with the same id is already present.
func (s *ApplicablePolicySet) Add(p Policy) {
	if _, ok := s.policies[p.ID]; ok {
		return
	}
	s.ids = append(s.ids, p.ID)
	s.policies[p.ID] = p
}

// Get returns the policy with the given id.
func (s *ApplicablePolicySet) Get(id string) (Policy, bool) {
	p, ok := s.policies[id]
	return p, ok
}

// Len returns the number of policies in the set.
func (s *ApplicablePolicySet) Len() int {
	return len(s.ids)
}

// Policies returns the policies in insertion order.
func (s *ApplicablePolicySet) Policies() []Policy {
	out := make([]Policy, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.policies[id])
	}
	return out
}
