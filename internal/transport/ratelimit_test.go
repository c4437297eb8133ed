package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	r.RemoteAddr = "127.0.0.1:5555"

	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("expected first X-Forwarded-For hop, got %q", got)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.RemoteAddr = "198.51.100.7:12345"

	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("expected RemoteAddr host, got %q", got)
	}
}

func TestConnCounterEnforcesPerIPLimit(t *testing.T) {
	c := newConnCounter(10, 2)

	if !c.tryAcquire("1.2.3.4") || !c.tryAcquire("1.2.3.4") {
		t.Fatal("expected first two acquisitions for the same IP to succeed")
	}
	if c.tryAcquire("1.2.3.4") {
		t.Error("expected a third acquisition from the same IP to be rejected")
	}

	c.release("1.2.3.4")
	if !c.tryAcquire("1.2.3.4") {
		t.Error("expected acquisition to succeed again after a release")
	}
}

func TestConnCounterEnforcesGlobalLimit(t *testing.T) {
	c := newConnCounter(1, 5)

	if !c.tryAcquire("1.1.1.1") {
		t.Fatal("expected the first global acquisition to succeed")
	}
	if c.tryAcquire("2.2.2.2") {
		t.Error("expected a second connection to be rejected once the global cap is hit")
	}
	if c.count() != 1 {
		t.Errorf("expected count 1, got %d", c.count())
	}
}
