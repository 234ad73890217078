package api

import (
	"net/http"

	"github.com/marketpulse/pulse/internal/api/response"
	"github.com/marketpulse/pulse/internal/core"
)

// Embeddable widget kinds. The configs are opaque blobs consumed by the
// third-party embed scripts; the server only fills in symbol, theme and
// size parameters so pages and API clients share one source of truth.
const (
	WidgetChart    = "chart"
	WidgetTicker   = "ticker"
	WidgetOverview = "overview"
	WidgetScreener = "screener"
	WidgetCalendar = "calendar"
)

// WidgetsHandler serves embed configuration blobs.
type WidgetsHandler struct {
	tickerSymbols []string
}

// NewWidgetsHandler creates a widgets handler. tickerSymbols feeds the
// ticker-tape and overview configs.
func NewWidgetsHandler(tickerSymbols []string) *WidgetsHandler {
	return &WidgetsHandler{tickerSymbols: tickerSymbols}
}

// Get returns the config blob for the widget kind in the path.
func (h *WidgetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	symbol := q.Get("symbol")
	if symbol == "" {
		symbol = "NASDAQ:AAPL"
	}
	theme := q.Get("theme")
	if theme != "dark" && theme != "light" {
		theme = "dark"
	}

	var cfg map[string]any
	switch r.PathValue("kind") {
	case WidgetChart:
		cfg = h.chartConfig(symbol, theme)
	case WidgetTicker:
		cfg = h.tickerConfig(theme)
	case WidgetOverview:
		cfg = h.overviewConfig(theme)
	case WidgetScreener:
		cfg = h.screenerConfig(theme)
	case WidgetCalendar:
		cfg = h.calendarConfig(theme)
	default:
		response.NotFound(w, core.WrapError(core.ErrNoData, nil))
		return
	}

	response.JSON(w, http.StatusOK, cfg)
}

func (h *WidgetsHandler) chartConfig(symbol, theme string) map[string]any {
	return map[string]any{
		"symbol":              symbol,
		"theme":               theme,
		"interval":            "D",
		"timezone":            "Etc/UTC",
		"style":               "1",
		"locale":              "en",
		"allow_symbol_change": true,
		"autosize":            true,
	}
}

func (h *WidgetsHandler) tickerConfig(theme string) map[string]any {
	symbols := make([]map[string]string, 0, len(h.tickerSymbols))
	for _, s := range h.tickerSymbols {
		symbols = append(symbols, map[string]string{"proName": s, "title": s})
	}
	return map[string]any{
		"symbols":       symbols,
		"colorTheme":    theme,
		"isTransparent": false,
		"displayMode":   "adaptive",
		"locale":        "en",
	}
}

func (h *WidgetsHandler) overviewConfig(theme string) map[string]any {
	return map[string]any{
		"colorTheme":          theme,
		"dateRange":           "12M",
		"showChart":           true,
		"locale":              "en",
		"width":               "100%",
		"height":              "100%",
		"showSymbolLogo":      true,
		"showFloatingTooltip": true,
	}
}

func (h *WidgetsHandler) screenerConfig(theme string) map[string]any {
	return map[string]any{
		"defaultScreen":   "general",
		"market":          "crypto",
		"colorTheme":      theme,
		"displayCurrency": "USD",
		"locale":          "en",
		"width":           "100%",
		"height":          "100%",
	}
}

func (h *WidgetsHandler) calendarConfig(theme string) map[string]any {
	return map[string]any{
		"colorTheme":       theme,
		"importanceFilter": "0,1",
		"countryFilter":    "us,eu,gb,jp,cn",
		"locale":           "en",
		"width":            "100%",
		"height":           "100%",
	}
}
