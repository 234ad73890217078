package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPMiddleware(t *testing.T) {
	reg := NewRegistry()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	wrapped := HTTPMiddleware(reg)(handler)

	req := httptest.NewRequest("GET", "/api/quotes", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	v, ok := metricValue(t, reg, "http_requests_total", map[string]string{"path": "/api/quotes", "status": "4xx"})
	if !ok {
		t.Fatal("expected http_requests_total metric")
	}
	if v != 1 {
		t.Errorf("expected 1 request recorded, got %v", v)
	}
}

func TestHTTPMiddleware_DefaultStatus(t *testing.T) {
	reg := NewRegistry()

	// Handler that never calls WriteHeader
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	wrapped := HTTPMiddleware(reg)(handler)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if _, ok := metricValue(t, reg, "http_requests_total", map[string]string{"status": "2xx"}); !ok {
		t.Error("expected implicit 200 recorded as 2xx")
	}
}
