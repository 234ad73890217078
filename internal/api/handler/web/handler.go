package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
)

//go:embed templates/*
var templateFS embed.FS

// pages lists the page templates (excluding layout.html). Each page is
// parsed together with the layout into its own template instance.
var pages = []string{"dashboard.html", "trading.html", "news.html"}

// Handler provides web UI handlers with template rendering.
type Handler struct {
	pageTemplates map[string]*template.Template
	tickerSymbols []string
}

// NewHandler creates a new web handler with templates loaded from the
// given directory. If templatesDir is empty, it falls back to embedded
// templates. tickerSymbols feeds the header ticker on every page.
func NewHandler(templatesDir string, tickerSymbols []string) (*Handler, error) {
	pageTemplates := make(map[string]*template.Template)

	for _, page := range pages {
		var tmpl *template.Template
		var err error

		if templatesDir != "" {
			layoutPath := filepath.Join(templatesDir, "layout.html")
			pagePath := filepath.Join(templatesDir, page)
			tmpl, err = template.ParseFiles(layoutPath, pagePath)
		} else {
			tmpl, err = template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{
		pageTemplates: pageTemplates,
		tickerSymbols: tickerSymbols,
	}, nil
}

// render executes the specified page template with the given data.
func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return templateFS
	}
	return subFS
}
