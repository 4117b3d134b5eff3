package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/vesta/pkg/credential"
)

// The engine accepts this type as its metrics sink.
var _ credential.Metrics = (*ValidationMetrics)(nil)

func TestRecordEvaluation(t *testing.T) {
	m := NewValidationMetrics(Config{})

	m.RecordEvaluation(true, false, time.Millisecond)
	m.RecordEvaluation(false, false, time.Millisecond)
	m.RecordEvaluation(false, true, time.Millisecond)

	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("valid", "false")); got != 1 {
		t.Errorf("valid evaluations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("invalid", "false")); got != 1 {
		t.Errorf("invalid evaluations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("invalid", "true")); got != 1 {
		t.Errorf("forced evaluations = %v, want 1", got)
	}
}

func TestRecordConstraintFailure(t *testing.T) {
	m := NewValidationMetrics(Config{Namespace: "testns"})

	m.RecordConstraintFailure("min_length")
	m.RecordConstraintFailure("min_length")
	m.RecordConstraintFailure("dictionary")

	if got := testutil.ToFloat64(m.constraintFailures.WithLabelValues("min_length")); got != 2 {
		t.Errorf("min_length failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.constraintFailures.WithLabelValues("dictionary")); got != 1 {
		t.Errorf("dictionary failures = %v, want 1", got)
	}
}

func TestHandler_ServesExposition(t *testing.T) {
	m := NewValidationMetrics(Config{})
	m.RecordEvaluation(true, false, time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rw := httptest.NewRecorder()
	m.Handler().ServeHTTP(rw, req)

	if rw.Code != 200 {
		t.Fatalf("status = %d, want 200", rw.Code)
	}
	body := rw.Body.String()
	if !strings.Contains(body, "vesta_credential_evaluations_total") {
		t.Errorf("exposition missing evaluations counter:\n%s", body)
	}
}
