package web

import (
	"net/http"
)

// DashboardData holds data for the market overview page.
type DashboardData struct {
	Title         string
	Active        string
	TickerSymbols []string
}

// Dashboard renders the market overview page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	h.render(w, "dashboard.html", DashboardData{
		Title:         "Market Overview",
		Active:        "dashboard",
		TickerSymbols: h.tickerSymbols,
	})
}
