package web

import (
	"net/http"
)

// TradingData holds data for the trading view.
type TradingData struct {
	Title  string
	Active string
	Symbol string
}

// Trading renders the trading view with a full-size chart. The symbol
// query parameter selects the charted instrument.
func (h *Handler) Trading(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = "NASDAQ:AAPL"
	}

	h.render(w, "trading.html", TradingData{
		Title:  "Trading",
		Active: "trading",
		Symbol: symbol,
	})
}
