package constraint

import (
	"strings"

	"mercator-hq/vesta/pkg/credential"
)

// usernameSimilarity rejects passwords containing the principal's username
// (or its reverse), case-insensitively. Usernames shorter than minUsernameLen
// are ignored to avoid rejecting every password containing, say, "al".
type usernameSimilarity struct {
	checkReversed bool
}

const minUsernameLen = 3

// NewUsernameSimilarity builds the "username_similarity" constraint.
// Params: reversed (optional bool, default true) also rejects the reversed
// username.
func NewUsernameSimilarity(params map[string]any) (credential.Constraint, error) {
	reversed, err := boolParamDefault("username_similarity", params, "reversed", true)
	if err != nil {
		return nil, err
	}
	return &usernameSimilarity{checkReversed: reversed}, nil
}

func (c *usernameSimilarity) Validate(password string, principal credential.Principal) credential.Result {
	username := strings.ToLower(principal.Username())
	if len(username) < minUsernameLen {
		return credential.Result{Valid: true}
	}

	candidate := strings.ToLower(password)
	if strings.Contains(candidate, username) {
		return credential.Result{
			Valid:   false,
			Message: "Password must not contain your username",
		}
	}
	if c.checkReversed && strings.Contains(candidate, reverse(username)) {
		return credential.Result{
			Valid:   false,
			Message: "Password must not contain your username reversed",
		}
	}
	return credential.Result{Valid: true}
}

func (c *usernameSimilarity) Summary() string {
	if c.checkReversed {
		return "Must not contain the username (or its reverse)"
	}
	return "Must not contain the username"
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
