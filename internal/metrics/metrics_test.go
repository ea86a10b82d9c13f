package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.ObserveRepository("add_attendee", nil)
	m.ObserveRepository("add_attendee", nil)
	m.ObserveRepository("add_attendee", errors.New("boom"))
	m.CapacityRejected()
	m.SetEventCount(3)
	m.ObserveDescription("missing_credential")

	if got := testutil.ToFloat64(m.repositoryOps.WithLabelValues("add_attendee", ResultOK)); got != 2 {
		t.Errorf("ok operations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.repositoryOps.WithLabelValues("add_attendee", ResultError)); got != 1 {
		t.Errorf("failed operations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.capacityRejections); got != 1 {
		t.Errorf("capacity rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.eventsStored); got != 3 {
		t.Errorf("events gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.descriptions.WithLabelValues("missing_credential")); got != 1 {
		t.Errorf("descriptions = %v, want 1", got)
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRepository("delete", nil)
	m.CapacityRejected()
	m.SetEventCount(1)
	m.ObserveDescription("ok")
	m.ObserveRPC("/x", "ok", time.Millisecond)
	m.ObserveSnapshot(nil)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRPC("/onbeventi.v1.EventService/ListEvents", "ok", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "onbeventi_rpc_duration_seconds") {
		t.Errorf("exposition is missing the rpc histogram:\n%s", body)
	}
}
