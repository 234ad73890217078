package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func doAuthRequest(t *testing.T, configured, provided string) *httptest.ResponseRecorder {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	wrapped := APIKeyAuth(configured)(handler)

	req := httptest.NewRequest("GET", "/api/quotes", nil)
	if provided != "" {
		req.Header.Set("X-API-Key", provided)
	}
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	w := doAuthRequest(t, "secret-key", "secret-key")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	w := doAuthRequest(t, "secret-key", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	w := doAuthRequest(t, "secret-key", "wrong-key")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIKeyAuth_EmptyConfiguredKey(t *testing.T) {
	w := doAuthRequest(t, "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 when auth disabled, got %d", w.Code)
	}
}
