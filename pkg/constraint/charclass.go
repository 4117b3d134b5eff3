package constraint

import (
	"strings"
	"unicode"

	"mercator-hq/vesta/pkg/credential"
)

// characterClasses requires the password to draw from configured character
// classes: uppercase, lowercase, digits and special characters.
type characterClasses struct {
	upper   bool
	lower   bool
	digit   bool
	special bool
}

// NewCharacterClasses builds the "character_classes" constraint.
// Params (all optional booleans, default false): upper, lower, digit, special.
// At least one class must be required.
func NewCharacterClasses(params map[string]any) (credential.Constraint, error) {
	const id = "character_classes"

	upper, err := boolParamDefault(id, params, "upper", false)
	if err != nil {
		return nil, err
	}
	lower, err := boolParamDefault(id, params, "lower", false)
	if err != nil {
		return nil, err
	}
	digit, err := boolParamDefault(id, params, "digit", false)
	if err != nil {
		return nil, err
	}
	special, err := boolParamDefault(id, params, "special", false)
	if err != nil {
		return nil, err
	}

	if !upper && !lower && !digit && !special {
		return nil, &credential.ConfigError{
			ConstraintID: id,
			Message:      "at least one character class must be required",
		}
	}

	return &characterClasses{upper: upper, lower: lower, digit: digit, special: special}, nil
}

func (c *characterClasses) Validate(password string, _ credential.Principal) credential.Result {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	var missing []string
	if c.upper && !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if c.lower && !hasLower {
		missing = append(missing, "a lowercase letter")
	}
	if c.digit && !hasDigit {
		missing = append(missing, "a digit")
	}
	if c.special && !hasSpecial {
		missing = append(missing, "a special character")
	}

	if len(missing) > 0 {
		return credential.Result{
			Valid:   false,
			Message: "Password must contain " + strings.Join(missing, ", "),
		}
	}
	return credential.Result{Valid: true}
}

func (c *characterClasses) Summary() string {
	var required []string
	if c.upper {
		required = append(required, "uppercase")
	}
	if c.lower {
		required = append(required, "lowercase")
	}
	if c.digit {
		required = append(required, "digits")
	}
	if c.special {
		required = append(required, "special characters")
	}
	return "Required character classes: " + strings.Join(required, ", ")
}
