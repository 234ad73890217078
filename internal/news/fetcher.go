package news

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marketpulse/pulse/internal/core"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// Fetcher retrieves and normalizes one RSS source.
type Fetcher interface {
	Fetch(ctx context.Context, source Source) ([]core.NewsItem, error)
}

// RSSFetcher parses feeds with gofeed.
type RSSFetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewRSSFetcher creates a fetcher with a per-source timeout.
func NewRSSFetcher(timeout time.Duration) *RSSFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RSSFetcher{parser: gofeed.NewParser(), timeout: timeout}
}

// Fetch downloads one source and normalizes its entries.
func (f *RSSFetcher) Fetch(ctx context.Context, source Source) ([]core.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, fmt.Errorf("fetching %s: %w", source.Name, err))
	}

	now := time.Now()
	items := make([]core.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		pub := now
		if entry.PublishedParsed != nil {
			pub = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			pub = *entry.UpdatedParsed
		}

		desc := entry.Description
		if desc == "" {
			desc = entry.Content
		}

		items = append(items, core.NewsItem{
			ID:          itemID(entry.Link, entry.Title),
			Title:       stripHTML(entry.Title),
			Description: stripHTML(desc),
			Source:      source.Name,
			Category:    source.Category,
			Link:        entry.Link,
			PublishedAt: pub,
		})
	}
	return items, nil
}

func itemID(link, title string) string {
	h := sha256.Sum256([]byte(link + "|" + title))
	return fmt.Sprintf("%x", h[:16])
}

// stripHTML removes tags and collapses whitespace.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FetchAll fetches every source concurrently with a fail-soft join: an
// errored source contributes zero items and is logged, others survive.
// The merged list is sorted descending by publish time.
func FetchAll(ctx context.Context, fetcher Fetcher, sources []Source, logger *zap.Logger) []core.NewsItem {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		mu     sync.Mutex
		merged []core.NewsItem
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			items, err := fetcher.Fetch(ctx, s)
			if err != nil {
				logger.Warn("feed fetch failed",
					zap.String("source", s.Name),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			merged = append(merged, items...)
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})
	return merged
}
