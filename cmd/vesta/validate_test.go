package main

import (
	"testing"
	"time"

	"mercator-hq/vesta/pkg/credential"
)

func TestBuildAuditRecord(t *testing.T) {
	principal := &cliPrincipal{
		username: "amara",
		roles:    []credential.RoleID{"editor"},
	}
	failedRow := credential.ReportRow{
		PolicyLabel:       "Baseline",
		ConstraintSummary: "Minimum length: 8",
		Status:            "Fail - Minimum length: 8",
		StatusClass:       credential.StatusFailed,
	}
	passedRow := credential.ReportRow{
		PolicyLabel:       "Baseline",
		ConstraintSummary: "Maximum length: 64",
		Status:            "Pass",
		StatusClass:       credential.StatusPassed,
	}

	tests := []struct {
		name           string
		effective      []credential.RoleID
		emptyPassword  bool
		rows           []credential.ReportRow
		wantRoleChange bool
		wantForced     bool
	}{
		{
			name:      "no role override",
			effective: nil,
			rows:      []credential.ReportRow{passedRow},
		},
		{
			name:      "override with identical membership",
			effective: []credential.RoleID{"editor"},
			rows:      []credential.ReportRow{passedRow},
		},
		{
			name:      "override reordered and duplicated",
			effective: []credential.RoleID{"editor", "editor", ""},
			rows:      []credential.ReportRow{passedRow},
		},
		{
			name:           "role added with new password",
			effective:      []credential.RoleID{"editor", "admin"},
			rows:           []credential.ReportRow{passedRow},
			wantRoleChange: true,
		},
		{
			name:           "role added with empty password and applicable constraints",
			effective:      []credential.RoleID{"editor", "admin"},
			emptyPassword:  true,
			rows:           []credential.ReportRow{passedRow, failedRow},
			wantRoleChange: true,
			wantForced:     true,
		},
		{
			name:           "role added with empty password but nothing applicable",
			effective:      []credential.RoleID{"editor", "admin"},
			emptyPassword:  true,
			rows:           nil,
			wantRoleChange: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := buildAuditRecord(principal, tt.effective, tt.emptyPassword, tt.rows, true, time.Millisecond)

			if rec.RoleChange != tt.wantRoleChange {
				t.Errorf("RoleChange = %v, want %v", rec.RoleChange, tt.wantRoleChange)
			}
			if rec.Forced != tt.wantForced {
				t.Errorf("Forced = %v, want %v", rec.Forced, tt.wantForced)
			}
		})
	}
}

func TestBuildAuditRecordCounts(t *testing.T) {
	principal := &cliPrincipal{
		username: "amara",
		roles:    []credential.RoleID{"editor"},
	}
	rows := []credential.ReportRow{
		{PolicyLabel: "Baseline", ConstraintSummary: "Minimum length: 8", StatusClass: credential.StatusFailed},
		{PolicyLabel: "Baseline", ConstraintSummary: "Maximum length: 64", StatusClass: credential.StatusPassed},
		{PolicyLabel: "Admins", ConstraintSummary: "Required character classes: digits", StatusClass: credential.StatusFailed},
	}

	rec := buildAuditRecord(principal, nil, false, rows, false, time.Millisecond)

	if rec.PolicyCount != 2 {
		t.Errorf("PolicyCount = %d, want 2", rec.PolicyCount)
	}
	if rec.ConstraintCount != 3 {
		t.Errorf("ConstraintCount = %d, want 3", rec.ConstraintCount)
	}
	want := []string{"Minimum length: 8", "Required character classes: digits"}
	if len(rec.FailedConstraints) != len(want) {
		t.Fatalf("FailedConstraints = %v, want %v", rec.FailedConstraints, want)
	}
	for i, summary := range want {
		if rec.FailedConstraints[i] != summary {
			t.Errorf("FailedConstraints[%d] = %q, want %q", i, rec.FailedConstraints[i], summary)
		}
	}
	if rec.Roles[0] != "editor" {
		t.Errorf("Roles = %v, want the principal's roles when no override is given", rec.Roles)
	}
}
