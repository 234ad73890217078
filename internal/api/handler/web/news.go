package web

import (
	"net/http"

	"github.com/marketpulse/pulse/internal/core"
)

// NewsData holds data for the news and analysis view.
type NewsData struct {
	Title    string
	Active   string
	Category string
}

// News renders the news view. The category query parameter narrows the
// feed; the page loads items and analyses from the API.
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" {
		if _, ok := core.Category(category).DisplayName(); !ok {
			category = ""
		}
	}

	h.render(w, "news.html", NewsData{
		Title:    "News & Analysis",
		Active:   "news",
		Category: category,
	})
}
