package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCoinGecko_Name(t *testing.T) {
	c := New("")
	if c.Name() != "coingecko" {
		t.Errorf("expected 'coingecko', got '%s'", c.Name())
	}
}

func TestBaseSymbol(t *testing.T) {
	tests := []struct {
		symbol   string
		expected string
	}{
		{"BTC", "BTC"},
		{"BTC-USD", "BTC"},
		{"ETH-USDT", "ETH"},
		{"btc-usd", "BTC"},
		{"SOLUSDT", "SOL"},
		{"AAPL", "AAPL"},
	}
	for _, tt := range tests {
		if got := baseSymbol(tt.symbol); got != tt.expected {
			t.Errorf("baseSymbol(%s) = %s, want %s", tt.symbol, got, tt.expected)
		}
	}
}

func TestCoinGecko_Supports(t *testing.T) {
	c := New("")
	tests := []struct {
		symbol string
		want   bool
	}{
		{"BTC", true},
		{"BTC-USD", true},
		{"ETH-USDT", true},
		{"AAPL", false},
		{"SPY", false},
	}
	for _, tt := range tests {
		if got := c.Supports(tt.symbol); got != tt.want {
			t.Errorf("Supports(%s) = %v, want %v", tt.symbol, got, tt.want)
		}
	}
}

func TestCoinGecko_FetchBatch(t *testing.T) {
	var gotIDs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query().Get("ids")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bitcoin": {"usd": 65000, "usd_24h_vol": 28000000000, "usd_24h_change": 2.5, "last_updated_at": 1714000000},
			"ethereum": {"usd": 3500, "usd_24h_vol": 12000000000, "usd_24h_change": -1.2, "last_updated_at": 1714000000}
		}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("", srv.URL)
	quotes, err := c.FetchBatch(context.Background(), []string{"BTC-USD", "ETH-USD"})
	if err != nil {
		t.Fatalf("FetchBatch failed: %v", err)
	}

	// IDs must be comma-joined in one request
	if !strings.Contains(gotIDs, ",") {
		t.Errorf("expected comma-joined ids, got %q", gotIDs)
	}
	if !strings.Contains(gotIDs, "bitcoin") || !strings.Contains(gotIDs, "ethereum") {
		t.Errorf("unexpected ids param: %q", gotIDs)
	}

	btc, ok := quotes["BTC-USD"]
	if !ok {
		t.Fatal("missing BTC-USD quote")
	}
	if btc.Price != 65000 {
		t.Errorf("expected price 65000, got %f", btc.Price)
	}
	if btc.ChangePercent != 2.5 {
		t.Errorf("expected change percent 2.5, got %f", btc.ChangePercent)
	}
	if btc.Change <= 0 {
		t.Errorf("expected positive change for positive percent, got %f", btc.Change)
	}
	if btc.Source != "coingecko" {
		t.Errorf("expected source coingecko, got %s", btc.Source)
	}

	eth, ok := quotes["ETH-USD"]
	if !ok {
		t.Fatal("missing ETH-USD quote")
	}
	if eth.ChangePercent != -1.2 {
		t.Errorf("expected change percent -1.2, got %f", eth.ChangePercent)
	}
}

func TestCoinGecko_Fetch_UnknownSymbol(t *testing.T) {
	c := New("")
	if _, err := c.Fetch(context.Background(), "AAPL"); err == nil {
		t.Error("expected error for unmapped symbol")
	}
}

func TestCoinGecko_FetchBatch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewWithBaseURL("", srv.URL)
	if _, err := c.FetchBatch(context.Background(), []string{"BTC"}); err == nil {
		t.Error("expected error for non-200 status")
	}
}

// Integration test - skip in CI
func TestCoinGecko_Fetch_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	c := New("")
	q, err := c.Fetch(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if q.Price <= 0 {
		t.Errorf("expected positive price, got %f", q.Price)
	}
}
