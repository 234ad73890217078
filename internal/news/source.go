package news

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/marketpulse/pulse/internal/core"
)

// Source is one configured RSS feed.
type Source struct {
	Name     string        `json:"name"`
	URL      string        `json:"url"`
	Category core.Category `json:"category"`
}

// LoadSources reads the feeds file, a JSON array of sources.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feeds file: %w", err)
	}

	var sources []Source
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing feeds file: %w", err)
	}

	for i, s := range sources {
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("feeds file entry %d: name and url are required", i)
		}
	}
	return sources, nil
}

// FilterByCategory returns the sources matching the category, or all
// sources when the category is empty.
func FilterByCategory(sources []Source, category core.Category) []Source {
	if category == "" {
		return sources
	}
	var matched []Source
	for _, s := range sources {
		if s.Category == category {
			matched = append(matched, s)
		}
	}
	return matched
}
