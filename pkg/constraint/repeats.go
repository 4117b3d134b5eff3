package constraint

import (
	"fmt"

	"mercator-hq/vesta/pkg/credential"
)

// consecutiveRepeats caps runs of identical characters ("aaa", "111").
type consecutiveRepeats struct {
	max int
}

// NewConsecutiveRepeats builds the "consecutive_repeats" constraint.
// Params: max (int, longest allowed run of one character).
func NewConsecutiveRepeats(params map[string]any) (credential.Constraint, error) {
	max, err := intParam("consecutive_repeats", params, "max")
	if err != nil {
		return nil, err
	}
	if max < 1 {
		return nil, &credential.ConfigError{
			ConstraintID: "consecutive_repeats",
			Param:        "max",
			Message:      fmt.Sprintf("must be at least 1, got %d", max),
		}
	}
	return &consecutiveRepeats{max: max}, nil
}

func (c *consecutiveRepeats) Validate(password string, _ credential.Principal) credential.Result {
	var prev rune
	run := 0
	for _, r := range password {
		if r == prev {
			run++
			if run > c.max {
				return credential.Result{
					Valid:   false,
					Message: fmt.Sprintf("Password must not repeat a character more than %d times in a row", c.max),
				}
			}
		} else {
			prev = r
			run = 1
		}
	}
	return credential.Result{Valid: true}
}

func (c *consecutiveRepeats) Summary() string {
	return fmt.Sprintf("At most %d consecutive identical characters", c.max)
}
