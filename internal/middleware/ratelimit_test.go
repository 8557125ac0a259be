package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medbridge/insurance-api/internal/domain/user"
)

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	handler := limitedHandler(rl)

	req := httptest.NewRequest(http.MethodGet, "/api/policies", nil)
	req.RemoteAddr = "10.0.0.1:50000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for first request, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 for second request, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode 429 body: %v", err)
	}
	if body["error"] != "rate limit exceeded" {
		t.Errorf("Unexpected error body: %v", body)
	}
}

func TestRateLimiterKeysBySourceAddress(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	handler := limitedHandler(rl)

	first := httptest.NewRequest(http.MethodGet, "/api/policies", nil)
	first.RemoteAddr = "10.0.0.1:50000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	// a different source address gets its own bucket
	second := httptest.NewRequest(http.MethodGet, "/api/policies", nil)
	second.RemoteAddr = "10.0.0.2:50000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for distinct address, got %d", rec.Code)
	}
}

func TestRateLimiterKeysByUser(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	handler := limitedHandler(rl)

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/claims", nil)
		req.RemoteAddr = remoteAddr
		req = req.WithContext(WithUser(req.Context(), user.User{ID: "u1", Role: user.RolePatient}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("10.0.0.1:50000"); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	// same user from another address shares the bucket
	if code := send("10.0.0.2:50000"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 for same user, got %d", code)
	}
}
