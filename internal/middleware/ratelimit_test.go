package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	h := limitedHandler(rl)

	for i := 0; i < 2; i++ {
		if rr := doRequest(h, "10.0.0.1:1234"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}

	rr := doRequest(h, "10.0.0.1:1234")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header on the 429")
	}
}

func TestRateLimiter_KeysByIPNotPort(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	h := limitedHandler(rl)

	if rr := doRequest(h, "10.0.0.1:1111"); rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}
	// Same IP on a new port shares the window.
	if rr := doRequest(h, "10.0.0.1:2222"); rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected same-IP request to be limited, got %d", rr.Code)
	}
	// A different IP gets its own window.
	if rr := doRequest(h, "10.0.0.2:1111"); rr.Code != http.StatusOK {
		t.Errorf("expected other-IP request to pass, got %d", rr.Code)
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	defer rl.Stop()
	h := limitedHandler(rl)

	if rr := doRequest(h, "10.0.0.1:1234"); rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}
	if rr := doRequest(h, "10.0.0.1:1234"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 inside the window, got %d", rr.Code)
	}

	time.Sleep(15 * time.Millisecond)

	if rr := doRequest(h, "10.0.0.1:1234"); rr.Code != http.StatusOK {
		t.Errorf("expected a fresh window after expiry, got %d", rr.Code)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()

	// The limiter still enforces after the sweeper is gone.
	h := limitedHandler(rl)
	doRequest(h, "10.0.0.1:1234")
	if rr := doRequest(h, "10.0.0.1:1234"); rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected the limiter to keep working after Stop, got %d", rr.Code)
	}
}
