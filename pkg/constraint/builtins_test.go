package constraint

import (
	"errors"
	"strings"
	"testing"

	"mercator-hq/vesta/pkg/credential"
)

type fakePrincipal struct {
	username string
}

func (p *fakePrincipal) Username() string { return p.username }

func (p *fakePrincipal) CurrentRoles() []credential.RoleID { return nil }

func TestMinLength(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]any
		password string
		want     bool
		wantErr  bool
	}{
		{"passes at boundary", map[string]any{"min": 6}, "abcdef", true, false},
		{"fails below boundary", map[string]any{"min": 6}, "abcde", false, false},
		{"counts runes not bytes", map[string]any{"min": 6}, "ü§ößŕę", true, false},
		{"yaml float param", map[string]any{"min": float64(4)}, "abcd", true, false},
		{"missing param", map[string]any{}, "", false, true},
		{"non-integer param", map[string]any{"min": "six"}, "", false, true},
		{"fractional param", map[string]any{"min": 5.5}, "", false, true},
		{"non-positive param", map[string]any{"min": 0}, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewMinLength(tt.params)
			if tt.wantErr {
				var cfgErr *credential.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("error = %v, want *credential.ConfigError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewMinLength() error = %v", err)
			}

			res := c.Validate(tt.password, &fakePrincipal{})
			if res.Valid != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.password, res.Valid, tt.want)
			}
			if !res.Valid && res.Message == "" {
				t.Error("failing result carries no message")
			}
		})
	}
}

func TestMaxLength(t *testing.T) {
	c, err := NewMaxLength(map[string]any{"max": 8})
	if err != nil {
		t.Fatalf("NewMaxLength() error = %v", err)
	}

	if res := c.Validate("12345678", &fakePrincipal{}); !res.Valid {
		t.Errorf("Validate(8 chars) = invalid, want valid")
	}
	if res := c.Validate("123456789", &fakePrincipal{}); res.Valid {
		t.Errorf("Validate(9 chars) = valid, want invalid")
	}
}

func TestCharacterClasses(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]any
		password string
		want     bool
	}{
		{"all classes present", map[string]any{"upper": true, "lower": true, "digit": true, "special": true}, "Ab1!", true},
		{"missing digit", map[string]any{"digit": true}, "Abc!", false},
		{"missing upper", map[string]any{"upper": true, "lower": true}, "abc", false},
		{"special is any non-alphanumeric", map[string]any{"special": true}, "abc def", true},
		{"only required classes checked", map[string]any{"lower": true}, "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCharacterClasses(tt.params)
			if err != nil {
				t.Fatalf("NewCharacterClasses() error = %v", err)
			}
			if res := c.Validate(tt.password, &fakePrincipal{}); res.Valid != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.password, res.Valid, tt.want)
			}
		})
	}
}

func TestCharacterClasses_NoClassRequired(t *testing.T) {
	// A count-style param like "classes" is not a recognized key; with no
	// boolean class params the configuration is rejected.
	for _, params := range []map[string]any{
		{},
		{"classes": 3},
		{"upper": false, "lower": false},
	} {
		_, err := NewCharacterClasses(params)

		var cfgErr *credential.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("NewCharacterClasses(%v) error = %v, want *credential.ConfigError", params, err)
		}
	}
}

func TestDictionary(t *testing.T) {
	c, err := NewDictionary(map[string]any{"words": []any{"Password", "letmein"}})
	if err != nil {
		t.Fatalf("NewDictionary() error = %v", err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"password", false}, // case-insensitive
		{"LETMEIN", false},
		{"password1", true}, // exact match only
		{"unrelated", true},
	}
	for _, tt := range tests {
		if res := c.Validate(tt.password, &fakePrincipal{}); res.Valid != tt.want {
			t.Errorf("Validate(%q) = %v, want %v", tt.password, res.Valid, tt.want)
		}
	}
}

func TestUsernameSimilarity(t *testing.T) {
	c, err := NewUsernameSimilarity(map[string]any{})
	if err != nil {
		t.Fatalf("NewUsernameSimilarity() error = %v", err)
	}

	amara := &fakePrincipal{username: "Amara"}
	tests := []struct {
		name      string
		password  string
		principal *fakePrincipal
		want      bool
	}{
		{"contains username", "xxamaraxx", amara, false},
		{"contains username different case", "AMARA123", amara, false},
		{"contains reversed username", "zzaramazz", amara, false},
		{"unrelated password", "tr0ub4dor&3", amara, true},
		{"short usernames ignored", "nal1234", &fakePrincipal{username: "al"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := c.Validate(tt.password, tt.principal); res.Valid != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.password, res.Valid, tt.want)
			}
		})
	}
}

func TestHistory(t *testing.T) {
	reused := map[string]bool{"hunter2": true}
	checker := func(username, password string, depth int) bool {
		if depth != 5 {
			t.Errorf("checker depth = %d, want 5", depth)
		}
		return reused[password]
	}

	factory := NewHistory(checker)
	c, err := factory(map[string]any{"depth": 5})
	if err != nil {
		t.Fatalf("NewHistory() error = %v", err)
	}

	if res := c.Validate("hunter2", &fakePrincipal{username: "amara"}); res.Valid {
		t.Error("Validate(reused) = valid, want invalid")
	}
	if res := c.Validate("fresh-password", &fakePrincipal{username: "amara"}); !res.Valid {
		t.Error("Validate(fresh) = invalid, want valid")
	}
}

func TestConsecutiveRepeats(t *testing.T) {
	c, err := NewConsecutiveRepeats(map[string]any{"max": 2})
	if err != nil {
		t.Fatalf("NewConsecutiveRepeats() error = %v", err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"aabbcc", true},
		{"aaabc", false},
		{"abc" + strings.Repeat("9", 3), false},
		{"", true},
	}
	for _, tt := range tests {
		if res := c.Validate(tt.password, &fakePrincipal{}); res.Valid != tt.want {
			t.Errorf("Validate(%q) = %v, want %v", tt.password, res.Valid, tt.want)
		}
	}
}

func TestSummaries(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r, BuiltinOptions{History: func(string, string, int) bool { return false }})

	tests := []struct {
		id     string
		params map[string]any
		want   string
	}{
		{"min_length", map[string]any{"min": 8}, "Minimum length: 8"},
		{"max_length", map[string]any{"max": 64}, "Maximum length: 64"},
		{"character_classes", map[string]any{"upper": true, "digit": true}, "Required character classes: uppercase, digits"},
		{"dictionary", map[string]any{"words": []any{"a", "b"}}, "Not a dictionary word (2 words)"},
		{"username_similarity", map[string]any{}, "Must not contain the username (or its reverse)"},
		{"consecutive_repeats", map[string]any{"max": 3}, "At most 3 consecutive identical characters"},
		{"history", map[string]any{"depth": 4}, "Not one of the last 4 passwords"},
	}

	for _, tt := range tests {
		c, err := r.Create(tt.id, tt.params)
		if err != nil {
			t.Fatalf("Create(%s) error = %v", tt.id, err)
		}
		if got := c.Summary(); got != tt.want {
			t.Errorf("%s Summary() = %q, want %q", tt.id, got, tt.want)
		}
	}
}
