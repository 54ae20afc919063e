package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveOperation_IncrementsLabelledCounter(t *testing.T) {
	before := testutil.ToFloat64(Operations.WithLabelValues("revoke", "conflict"))
	ObserveOperation("revoke", "conflict")
	ObserveOperation("revoke", "conflict")

	after := testutil.ToFloat64(Operations.WithLabelValues("revoke", "conflict"))
	if after-before != 2 {
		t.Fatalf("expected +2, got %v", after-before)
	}
}

func TestHandler_ExposesCounters(t *testing.T) {
	ExpiredSwept.Add(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "access_expired_grants_swept_total") {
		t.Fatalf("expected swept counter in output")
	}
}
