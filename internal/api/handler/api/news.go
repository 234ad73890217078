package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/marketpulse/pulse/internal/api/response"
	"github.com/marketpulse/pulse/internal/core"
)

// NewsService defines the interface needed from news.Service.
type NewsService interface {
	Get(ctx context.Context, category core.Category, force bool) []core.NewsItem
	Categories() []core.Category
}

// NewsHandler handles news API requests.
type NewsHandler struct {
	news NewsService
}

// NewNewsHandler creates a new news handler.
func NewNewsHandler(news NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// List returns merged news, optionally filtered by category and capped
// by limit.
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := core.Category(q.Get("category"))
	if category != "" {
		if _, ok := category.DisplayName(); !ok {
			response.BadRequest(w, core.WrapError(core.ErrNoData, nil))
			return
		}
	}

	items := h.news.Get(r.Context(), category, wantRefresh(q))

	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n >= 0 && n < len(items) {
			items = items[:n]
		}
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// Categories returns the categories present in the configured sources.
func (h *NewsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.news.Categories()

	type categoryView struct {
		ID   core.Category `json:"id"`
		Name string        `json:"name"`
	}

	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		name, ok := c.DisplayName()
		if !ok {
			continue
		}
		views = append(views, categoryView{ID: c, Name: name})
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"categories": views,
	})
}
