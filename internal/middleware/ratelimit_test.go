package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func attempt(t *testing.T, h http.Handler, addr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", http.NoBody)
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	h := rl.Handler(okHandler())

	for i := 0; i < 10; i++ {
		if rec := attempt(t, h, "192.168.1.1:4000"); rec.Code != http.StatusOK {
			t.Errorf("attempt %d: status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRateLimiterThrottlesRepeatedAttempts(t *testing.T) {
	rl := NewRateLimiter(10, 5)
	h := rl.Handler(okHandler())

	for i := 0; i < 5; i++ {
		attempt(t, h, "192.168.1.1:4000")
	}

	rec := attempt(t, h, "192.168.1.1:4000")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 once the burst is spent", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("a throttled attempt must carry Retry-After")
	}
}

func TestRateLimiterReportsHeaders(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	h := rl.Handler(okHandler())

	rec := attempt(t, h, "192.168.1.1:4000")
	if rec.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("missing X-RateLimit-Remaining")
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("missing X-RateLimit-Reset")
	}
}

func TestRateLimiterIsolatesAddresses(t *testing.T) {
	rl := NewRateLimiter(10, 2)
	h := rl.Handler(okHandler())

	// One school's office machine burns its budget.
	for i := 0; i < 2; i++ {
		attempt(t, h, "10.0.0.1:4000")
	}
	if rec := attempt(t, h, "10.0.0.1:4000"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("exhausted address: status = %d, want 429", rec.Code)
	}

	// A different address still logs in.
	if rec := attempt(t, h, "10.0.0.2:4000"); rec.Code != http.StatusOK {
		t.Errorf("fresh address: status = %d, want 200", rec.Code)
	}
}

func TestRateLimiterCleanupDropsIdleAddresses(t *testing.T) {
	rl := NewRateLimiter(10, 2)
	h := rl.Handler(okHandler())

	attempt(t, h, "10.0.0.1:4000")
	attempt(t, h, "10.0.0.2:4000")
	if rl.Len() != 2 {
		t.Fatalf("tracked = %d, want 2", rl.Len())
	}

	time.Sleep(5 * time.Millisecond)
	rl.cleanup(time.Millisecond)
	if rl.Len() != 0 {
		t.Fatalf("tracked = %d after cleanup, want 0", rl.Len())
	}
}
