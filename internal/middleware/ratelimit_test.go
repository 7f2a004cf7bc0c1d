package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, handler http.Handler, remoteAddr string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitExhaustsBudget(t *testing.T) {
	// No refill within the test: everything beyond the burst is rejected.
	handler := RateLimit(0, 3)(okHandler())

	for i := 0; i < 3; i++ {
		if code := doRequest(t, handler, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := doRequest(t, handler, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after budget exhausted", code)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	handler := RateLimit(0, 1)(okHandler())

	if code := doRequest(t, handler, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first ip: status = %d, want 200", code)
	}
	if code := doRequest(t, handler, "10.0.0.1:9999"); code != http.StatusTooManyRequests {
		t.Errorf("same ip, new port: status = %d, want 429", code)
	}
	if code := doRequest(t, handler, "10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("different ip: status = %d, want 200", code)
	}
}

func TestRateLimitIndependentBudgets(t *testing.T) {
	strict := RateLimit(0, 1)(okHandler())
	loose := RateLimit(0, 10)(okHandler())

	// Exhaust the strict budget.
	doRequest(t, strict, "10.0.0.1:1234")
	if code := doRequest(t, strict, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Fatalf("strict: status = %d, want 429", code)
	}

	// The loose budget is untouched.
	if code := doRequest(t, loose, "10.0.0.1:1234"); code != http.StatusOK {
		t.Errorf("loose: status = %d, want 200", code)
	}
}
