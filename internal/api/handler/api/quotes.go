package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/marketpulse/pulse/internal/api/response"
	"github.com/marketpulse/pulse/internal/core"
)

// QuoteService defines the interface needed from quote.Service.
type QuoteService interface {
	Get(ctx context.Context, symbol string, force bool) (*core.Quote, error)
	GetBatch(ctx context.Context, symbols []string, force bool) map[string]*core.Quote
}

// QuotesHandler handles market quote API requests.
type QuotesHandler struct {
	quotes         QuoteService
	defaultSymbols []string
}

// NewQuotesHandler creates a new quotes handler. defaultSymbols is
// served when the request names no symbols.
func NewQuotesHandler(quotes QuoteService, defaultSymbols []string) *QuotesHandler {
	return &QuotesHandler{quotes: quotes, defaultSymbols: defaultSymbols}
}

// List returns quotes for the comma-separated symbols query parameter,
// or the configured default set. refresh=true bypasses the cache.
func (h *QuotesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	symbols := h.defaultSymbols
	if raw := q.Get("symbols"); raw != "" {
		symbols = splitSymbols(raw)
	}
	if len(symbols) == 0 {
		response.BadRequest(w, core.WrapError(core.ErrSymbolNotFound, nil))
		return
	}

	quotes := h.quotes.GetBatch(r.Context(), symbols, wantRefresh(q))

	// Preserve request order; symbols nothing could price are omitted.
	ordered := make([]*core.Quote, 0, len(quotes))
	for _, symbol := range symbols {
		if quote, ok := quotes[symbol]; ok {
			ordered = append(ordered, quote)
		}
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"quotes": ordered,
	})
}

// GetOne returns the quote for a single symbol.
func (h *QuotesHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(r.PathValue("symbol")))
	if symbol == "" {
		response.BadRequest(w, core.WrapError(core.ErrSymbolNotFound, nil))
		return
	}

	quote, err := h.quotes.Get(r.Context(), symbol, wantRefresh(r.URL.Query()))
	if err != nil {
		response.NotFound(w, err)
		return
	}

	response.JSON(w, http.StatusOK, quote)
}

func wantRefresh(q url.Values) bool {
	v := q.Get("refresh")
	return v == "1" || v == "true"
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
