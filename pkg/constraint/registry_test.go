package constraint

import (
	"errors"
	"reflect"
	"testing"

	"mercator-hq/vesta/pkg/credential"
)

func TestRegistry_CreateUnknownID(t *testing.T) {
	r := NewRegistry()

	_, err := r.Create("no_such_constraint", nil)

	var unknownErr *credential.UnknownConstraintError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error = %v, want *credential.UnknownConstraintError", err)
	}
	if unknownErr.ID != "no_such_constraint" {
		t.Errorf("ID = %q, want %q", unknownErr.ID, "no_such_constraint")
	}
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry()
	r.Register("min_length", NewMinLength)

	c, err := r.Create("min_length", map[string]any{"min": 8})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := c.Summary(); got != "Minimum length: 8" {
		t.Errorf("Summary() = %q, want %q", got, "Minimum length: 8")
	}
}

func TestRegistry_IDs(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r, BuiltinOptions{})

	want := []string{
		"character_classes",
		"consecutive_repeats",
		"dictionary",
		"history",
		"max_length",
		"min_length",
		"username_similarity",
	}
	if got := r.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}

	if !r.Has("min_length") {
		t.Error("Has(min_length) = false, want true")
	}
	if r.Has("zxcvbn") {
		t.Error("Has(zxcvbn) = true, want false")
	}
}

func TestHistory_WithoutCheckerFailsFast(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r, BuiltinOptions{})

	_, err := r.Create("history", map[string]any{"depth": 3})

	var cfgErr *credential.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *credential.ConfigError", err)
	}
}
