package metrics

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRecordersDoNotPanic(t *testing.T) {
	RecordTick(5 * time.Millisecond)
	UpdatePopulation(3, 2, 1)
	UpdateWSConnections(4)
	RecordMessage("inbound")
	RecordMessage("outbound")
	RecordConnectionRejected("rate_limit")
}

func TestHandlerServesMetrics(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected a non-empty metrics body")
	}
}

func TestDebugMuxServesPprofAndMetrics(t *testing.T) {
	mux := DebugMux()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	mux.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("expected 200 from debug mux /metrics, got %d", rec.Code)
	}
}
