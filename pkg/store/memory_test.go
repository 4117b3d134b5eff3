package store

import (
	"context"
	"testing"

	"mercator-hq/vesta/pkg/credential"
)

func testPolicies() []credential.Policy {
	return []credential.Policy{
		{
			ID:    "baseline",
			Label: "Baseline",
			Roles: []credential.RoleID{"editor", "admin"},
			Constraints: []credential.ConstraintConfig{
				{ID: "min_length", Params: map[string]any{"min": 8}},
			},
		},
		{
			ID:    "admin-extra",
			Label: "Admin extra",
			Roles: []credential.RoleID{"admin"},
			Constraints: []credential.ConstraintConfig{
				{ID: "character_classes", Params: map[string]any{"upper": true, "digit": true}},
				{ID: "min_length", Params: map[string]any{"min": 12}},
			},
		},
	}
}

func TestMemory_FindByRole(t *testing.T) {
	m, err := NewMemoryWithPolicies(testPolicies()...)
	if err != nil {
		t.Fatalf("NewMemoryWithPolicies() error = %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		role    credential.RoleID
		wantIDs []string
	}{
		{"editor", []string{"baseline"}},
		{"admin", []string{"baseline", "admin-extra"}},
		{"guest", nil},
	}

	for _, tt := range tests {
		got, err := m.FindByRole(ctx, tt.role)
		if err != nil {
			t.Fatalf("FindByRole(%s) error = %v", tt.role, err)
		}
		if len(got) != len(tt.wantIDs) {
			t.Fatalf("FindByRole(%s) returned %d policies, want %d", tt.role, len(got), len(tt.wantIDs))
		}
		for i, id := range tt.wantIDs {
			if got[i].ID != id {
				t.Errorf("FindByRole(%s)[%d].ID = %q, want %q", tt.role, i, got[i].ID, id)
			}
		}
	}
}

func TestMemory_PutReplacesAndKeepsOrder(t *testing.T) {
	m, err := NewMemoryWithPolicies(testPolicies()...)
	if err != nil {
		t.Fatalf("NewMemoryWithPolicies() error = %v", err)
	}
	ctx := context.Background()

	updated := credential.Policy{ID: "baseline", Label: "Baseline v2", Roles: []credential.RoleID{"editor"}}
	if err := m.Put(ctx, updated); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d policies, want 2", len(list))
	}
	if list[0].ID != "baseline" || list[0].Label != "Baseline v2" {
		t.Errorf("list[0] = %s/%s, want baseline/Baseline v2", list[0].ID, list[0].Label)
	}
}

func TestMemory_PutEmptyID(t *testing.T) {
	m := NewMemory()
	if err := m.Put(context.Background(), credential.Policy{}); err == nil {
		t.Error("Put(empty id) error = nil, want error")
	}
}

func TestMemory_Delete(t *testing.T) {
	m, err := NewMemoryWithPolicies(testPolicies()...)
	if err != nil {
		t.Fatalf("NewMemoryWithPolicies() error = %v", err)
	}
	ctx := context.Background()

	if err := m.Delete(ctx, "baseline"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := m.Delete(ctx, "baseline"); err != nil {
		t.Fatalf("Delete(absent) error = %v", err)
	}

	got, err := m.FindByRole(ctx, "editor")
	if err != nil {
		t.Fatalf("FindByRole() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FindByRole(editor) returned %d policies after delete, want 0", len(got))
	}
}

// The store package backends all satisfy the same read contract.
var (
	_ Reader = (*Memory)(nil)
	_ Reader = (*SQLite)(nil)
	_ Reader = (*File)(nil)
	_ Writer = (*Memory)(nil)
	_ Writer = (*SQLite)(nil)
)
