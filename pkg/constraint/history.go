package constraint

import (
	"fmt"

	"mercator-hq/vesta/pkg/credential"
)

// HistoryChecker reports whether a candidate password was used by the
// principal within the last depth credential changes. Implementations own
// the comparison discipline (typically a hash comparison against stored
// digests); the call is synchronous and blocks the evaluation.
type HistoryChecker func(username, password string, depth int) bool

// history rejects reuse of recent passwords through an injected checker.
type history struct {
	depth int
	check HistoryChecker
}

// NewHistory returns a factory for the "history" constraint bound to the
// given checker. Params: depth (int, how many previous passwords to check).
func NewHistory(check HistoryChecker) FactoryFunc {
	return func(params map[string]any) (credential.Constraint, error) {
		if check == nil {
			return nil, &credential.ConfigError{
				ConstraintID: "history",
				Message:      "no history checker configured",
			}
		}
		depth, err := intParam("history", params, "depth")
		if err != nil {
			return nil, err
		}
		if depth < 1 {
			return nil, &credential.ConfigError{
				ConstraintID: "history",
				Param:        "depth",
				Message:      fmt.Sprintf("must be at least 1, got %d", depth),
			}
		}
		return &history{depth: depth, check: check}, nil
	}
}

func (c *history) Validate(password string, principal credential.Principal) credential.Result {
	if c.check(principal.Username(), password, c.depth) {
		return credential.Result{
			Valid:   false,
			Message: fmt.Sprintf("Password was used within your last %d passwords", c.depth),
		}
	}
	return credential.Result{Valid: true}
}

func (c *history) Summary() string {
	return fmt.Sprintf("Not one of the last %d passwords", c.depth)
}
