package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowBurstThenReject(t *testing.T) {
	l := New(1, 3)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("fourth request should be rejected")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("other clients have their own bucket")
	}

	fixed = fixed.Add(time.Second)
	if !l.Allow("10.0.0.1") {
		t.Fatal("a token should refill after one second")
	}
}

func TestCleanupDropsIdleVisitors(t *testing.T) {
	l := New(1, 1)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(3 * time.Minute)
	l.Allow("b")
	now = now.Add(3 * time.Minute)

	if got := l.Cleanup(); got != 1 {
		t.Fatalf("expected 1 visitor removed, got %d", got)
	}
	if _, ok := l.visitors["b"]; !ok {
		t.Fatal("recent visitor should be kept")
	}
}

func TestMiddlewareOnlyThrottlesListedMethods(t *testing.T) {
	l := New(0.001, 1)
	h := l.Middleware(http.MethodPost)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(method string) int {
		req := httptest.NewRequest(method, "/login", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send(http.MethodPost); code != http.StatusNoContent {
		t.Fatalf("first POST: expected 204, got %d", code)
	}
	if code := send(http.MethodPost); code != http.StatusTooManyRequests {
		t.Fatalf("second POST: expected 429, got %d", code)
	}
	for i := 0; i < 5; i++ {
		if code := send(http.MethodGet); code != http.StatusNoContent {
			t.Fatalf("GET should not be throttled, got %d", code)
		}
	}
}
