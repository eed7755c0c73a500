// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.0.2.10:4312", nil, "192.0.2.10"},
		{"remote addr without port", "192.0.2.10", nil, "192.0.2.10"},
		{"x-real-ip wins", "192.0.2.10:4312", map[string]string{"X-Real-IP": "203.0.113.5"}, "203.0.113.5"},
		{"x-forwarded-for first hop", "192.0.2.10:4312",
			map[string]string{"X-Forwarded-For": "203.0.113.5, 198.51.100.7"}, "203.0.113.5"},
		{"real-ip over forwarded-for", "192.0.2.10:4312",
			map[string]string{"X-Real-IP": "203.0.113.9", "X-Forwarded-For": "203.0.113.5"}, "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGlobalRateLimiterMiddleware(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 2)
	handler := rl.Middleware()(okHandler())

	newReq := func(ip string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		r.RemoteAddr = ip + ":1234"
		return r
	}

	// Burst of 2 allowed, third rejected
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newReq("192.0.2.1"))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newReq("192.0.2.1"))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("response is not the JSON error envelope: %v", err)
	}
	if apiErr.Error.Code != "rate_limit_exceeded" {
		t.Errorf("code = %q, want rate_limit_exceeded", apiErr.Error.Code)
	}

	// A different IP has its own budget
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, newReq("192.0.2.2"))
	if w.Code != http.StatusOK {
		t.Errorf("other IP: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestGlobalRateLimiterHTMLMiddleware(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 1)
	handler := rl.HTMLMiddleware()(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.3:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if ct := w.Header().Get("Content-Type"); ct == "application/json" {
		t.Error("HTML middleware must not return JSON errors")
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	for _, key := range []string{"a", "b", "c"} {
		lc.get(key)
	}

	if lc.clearIfExceeds(5) {
		t.Error("cache below the limit must not be cleared")
	}
	if !lc.clearIfExceeds(2) {
		t.Error("cache above the limit must be cleared")
	}
	if len(lc.limiters) != 0 {
		t.Errorf("limiters after clear = %d, want 0", len(lc.limiters))
	}
}
