package constraint

import (
	"fmt"
	"strings"

	"mercator-hq/vesta/pkg/credential"
)

// dictionary rejects passwords equal to any configured word,
// case-insensitively.
type dictionary struct {
	words map[string]struct{}
	count int
}

// NewDictionary builds the "dictionary" constraint.
// Params: words (list of strings).
func NewDictionary(params map[string]any) (credential.Constraint, error) {
	words, err := stringListParam("dictionary", params, "words")
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, &credential.ConfigError{
			ConstraintID: "dictionary",
			Param:        "words",
			Message:      "word list cannot be empty",
		}
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &dictionary{words: set, count: len(set)}, nil
}

func (c *dictionary) Validate(password string, _ credential.Principal) credential.Result {
	if _, ok := c.words[strings.ToLower(password)]; ok {
		return credential.Result{
			Valid:   false,
			Message: "Password is a commonly used word",
		}
	}
	return credential.Result{Valid: true}
}

func (c *dictionary) Summary() string {
	return fmt.Sprintf("Not a dictionary word (%d words)", c.count)
}
