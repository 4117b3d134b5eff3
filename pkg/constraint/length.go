package constraint

import (
	"fmt"
	"unicode/utf8"

	"mercator-hq/vesta/pkg/credential"
)

// minLength requires at least a configured number of characters.
// Length is counted in runes so multibyte characters count once.
type minLength struct {
	min int
}

// NewMinLength builds the "min_length" constraint. Params: min (int).
func NewMinLength(params map[string]any) (credential.Constraint, error) {
	min, err := intParam("min_length", params, "min")
	if err != nil {
		return nil, err
	}
	if min < 1 {
		return nil, &credential.ConfigError{
			ConstraintID: "min_length",
			Param:        "min",
			Message:      fmt.Sprintf("must be at least 1, got %d", min),
		}
	}
	return &minLength{min: min}, nil
}

func (c *minLength) Validate(password string, _ credential.Principal) credential.Result {
	if utf8.RuneCountInString(password) < c.min {
		return credential.Result{
			Valid:   false,
			Message: fmt.Sprintf("Password must be at least %d characters long", c.min),
		}
	}
	return credential.Result{Valid: true}
}

func (c *minLength) Summary() string {
	return fmt.Sprintf("Minimum length: %d", c.min)
}

// maxLength caps the number of characters.
type maxLength struct {
	max int
}

// NewMaxLength builds the "max_length" constraint. Params: max (int).
func NewMaxLength(params map[string]any) (credential.Constraint, error) {
	max, err := intParam("max_length", params, "max")
	if err != nil {
		return nil, err
	}
	if max < 1 {
		return nil, &credential.ConfigError{
			ConstraintID: "max_length",
			Param:        "max",
			Message:      fmt.Sprintf("must be at least 1, got %d", max),
		}
	}
	return &maxLength{max: max}, nil
}

func (c *maxLength) Validate(password string, _ credential.Principal) credential.Result {
	if utf8.RuneCountInString(password) > c.max {
		return credential.Result{
			Valid:   false,
			Message: fmt.Sprintf("Password must be at most %d characters long", c.max),
		}
	}
	return credential.Result{Valid: true}
}

func (c *maxLength) Summary() string {
	return fmt.Sprintf("Maximum length: %d", c.max)
}
