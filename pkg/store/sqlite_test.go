package store

import (
	"context"
	"path/filepath"
	"testing"

	"mercator-hq/vesta/pkg/credential"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "policies.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_PutAndFindByRole(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, p := range testPolicies() {
		if err := s.Put(ctx, p); err != nil {
			t.Fatalf("Put(%s) error = %v", p.ID, err)
		}
	}

	got, err := s.FindByRole(ctx, "admin")
	if err != nil {
		t.Fatalf("FindByRole() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FindByRole(admin) returned %d policies, want 2", len(got))
	}
	if got[0].ID != "baseline" || got[1].ID != "admin-extra" {
		t.Errorf("order = [%s %s], want [baseline admin-extra]", got[0].ID, got[1].ID)
	}

	// Constraint configs round-trip through the JSON column. JSON numbers
	// decode as float64; the constraint factories accept that.
	extra := got[1]
	if len(extra.Constraints) != 2 {
		t.Fatalf("constraints = %d, want 2", len(extra.Constraints))
	}
	if extra.Constraints[0].ID != "character_classes" {
		t.Errorf("constraint[0].ID = %q, want character_classes", extra.Constraints[0].ID)
	}
	if min, ok := extra.Constraints[1].Params["min"].(float64); !ok || min != 12 {
		t.Errorf("min param = %v, want 12", extra.Constraints[1].Params["min"])
	}

	if len(extra.Roles) != 1 || extra.Roles[0] != "admin" {
		t.Errorf("roles = %v, want [admin]", extra.Roles)
	}
}

func TestSQLite_PutReplaces(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	p := testPolicies()[0]
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	p.Label = "Baseline v2"
	p.Roles = []credential.RoleID{"editor"} // admin membership removed
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	byAdmin, err := s.FindByRole(ctx, "admin")
	if err != nil {
		t.Fatalf("FindByRole() error = %v", err)
	}
	if len(byAdmin) != 0 {
		t.Errorf("FindByRole(admin) returned %d policies after role removal, want 0", len(byAdmin))
	}

	byEditor, err := s.FindByRole(ctx, "editor")
	if err != nil {
		t.Fatalf("FindByRole() error = %v", err)
	}
	if len(byEditor) != 1 || byEditor[0].Label != "Baseline v2" {
		t.Errorf("FindByRole(editor) = %v, want single Baseline v2", byEditor)
	}
}

func TestSQLite_DeleteCascadesRoles(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.Put(ctx, testPolicies()[0]); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, "baseline"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := s.FindByRole(ctx, "editor")
	if err != nil {
		t.Fatalf("FindByRole() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindByRole(editor) returned %d policies after delete, want 0", len(got))
	}
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	if err := s.Put(ctx, testPolicies()[0]); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite(reopen) error = %v", err)
	}
	defer reopened.Close()

	list, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != "baseline" {
		t.Errorf("List() after reopen = %v, want [baseline]", list)
	}
}
