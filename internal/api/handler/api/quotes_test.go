package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketpulse/pulse/internal/api/response"
	"github.com/marketpulse/pulse/internal/core"
)

type fakeQuoteService struct {
	forced  bool
	fetched []string
}

func (f *fakeQuoteService) Get(_ context.Context, symbol string, force bool) (*core.Quote, error) {
	f.forced = force
	if symbol == "MISSING" {
		return nil, core.ErrSymbolNotFound
	}
	return &core.Quote{Symbol: symbol, Price: 100, Time: time.Now(), Source: "test"}, nil
}

func (f *fakeQuoteService) GetBatch(_ context.Context, symbols []string, force bool) map[string]*core.Quote {
	f.forced = force
	f.fetched = symbols
	result := make(map[string]*core.Quote)
	for _, s := range symbols {
		if s == "MISSING" {
			continue
		}
		result[s] = &core.Quote{Symbol: s, Price: 100, Time: time.Now(), Source: "test"}
	}
	return result
}

func TestQuotesHandler_List(t *testing.T) {
	svc := &fakeQuoteService{}
	handler := NewQuotesHandler(svc, []string{"SPY"})

	req := httptest.NewRequest("GET", "/api/quotes?symbols=aapl,%20btc-usd", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(svc.fetched) != 2 || svc.fetched[0] != "AAPL" || svc.fetched[1] != "BTC-USD" {
		t.Errorf("expected normalized symbols [AAPL BTC-USD], got %v", svc.fetched)
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	quotes := data["quotes"].([]any)
	if len(quotes) != 2 {
		t.Errorf("expected 2 quotes, got %d", len(quotes))
	}
}

func TestQuotesHandler_List_Defaults(t *testing.T) {
	svc := &fakeQuoteService{}
	handler := NewQuotesHandler(svc, []string{"SPY", "QQQ"})

	req := httptest.NewRequest("GET", "/api/quotes", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(svc.fetched) != 2 {
		t.Errorf("expected default symbols, got %v", svc.fetched)
	}
}

func TestQuotesHandler_List_Refresh(t *testing.T) {
	svc := &fakeQuoteService{}
	handler := NewQuotesHandler(svc, nil)

	req := httptest.NewRequest("GET", "/api/quotes?symbols=AAPL&refresh=1", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if !svc.forced {
		t.Error("expected refresh=1 to bypass the cache")
	}
}

func TestQuotesHandler_List_OmitsUnpriced(t *testing.T) {
	svc := &fakeQuoteService{}
	handler := NewQuotesHandler(svc, nil)

	req := httptest.NewRequest("GET", "/api/quotes?symbols=AAPL,MISSING", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	quotes := data["quotes"].([]any)
	if len(quotes) != 1 {
		t.Errorf("expected unpriced symbol omitted, got %d quotes", len(quotes))
	}
}

func TestQuotesHandler_List_NoSymbols(t *testing.T) {
	handler := NewQuotesHandler(&fakeQuoteService{}, nil)

	req := httptest.NewRequest("GET", "/api/quotes", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 with no symbols anywhere, got %d", w.Code)
	}
}

func TestQuotesHandler_GetOne(t *testing.T) {
	handler := NewQuotesHandler(&fakeQuoteService{}, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/quotes/{symbol}", handler.GetOne)

	req := httptest.NewRequest("GET", "/api/quotes/aapl", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if data["symbol"] != "AAPL" {
		t.Errorf("expected symbol AAPL, got %v", data["symbol"])
	}
}

func TestQuotesHandler_GetOne_NotFound(t *testing.T) {
	handler := NewQuotesHandler(&fakeQuoteService{}, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/quotes/{symbol}", handler.GetOne)

	req := httptest.NewRequest("GET", "/api/quotes/MISSING", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
