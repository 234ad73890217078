package news

import (
	"context"
	"sync"
	"time"

	"github.com/marketpulse/pulse/internal/core"
	"go.uber.org/zap"
)

// Metrics is the subset of the metrics registry the news service uses.
type Metrics interface {
	RecordNewsFetch(items int)
	RecordCacheEvent(cache string, hit bool)
}

type cacheEntry struct {
	items     []core.NewsItem
	fetchedAt time.Time
}

// Service fetches and caches merged news lists keyed by category filter.
type Service struct {
	sources []Source
	fetcher Fetcher
	ttl     time.Duration
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time

	mu    sync.Mutex
	cache map[core.Category]cacheEntry
}

// NewService creates a news service. metrics may be nil.
func NewService(sources []Source, fetcher Fetcher, ttl time.Duration, logger *zap.Logger, metrics Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sources: sources,
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		cache:   make(map[core.Category]cacheEntry),
	}
}

// SetClock overrides the time source (for testing).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Get returns the merged, sorted item list for the category filter (all
// sources when category is empty). A cache entry younger than the TTL is
// returned without refetching unless force is set.
func (s *Service) Get(ctx context.Context, category core.Category, force bool) []core.NewsItem {
	if !force {
		s.mu.Lock()
		entry, ok := s.cache[category]
		fresh := ok && s.now().Sub(entry.fetchedAt) < s.ttl
		s.mu.Unlock()

		if s.metrics != nil {
			s.metrics.RecordCacheEvent("news", fresh)
		}
		if fresh {
			return entry.items
		}
	}

	matched := FilterByCategory(s.sources, category)
	items := FetchAll(ctx, s.fetcher, matched, s.logger)

	s.mu.Lock()
	s.cache[category] = cacheEntry{items: items, fetchedAt: s.now()}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordNewsFetch(len(items))
	}
	s.logger.Debug("news fetched",
		zap.String("category", string(category)),
		zap.Int("sources", len(matched)),
		zap.Int("items", len(items)),
	)
	return items
}

// Categories returns the distinct categories present in the configured
// sources.
func (s *Service) Categories() []core.Category {
	seen := make(map[core.Category]struct{})
	var categories []core.Category
	for _, src := range s.sources {
		if _, ok := seen[src.Category]; ok {
			continue
		}
		seen[src.Category] = struct{}{}
		categories = append(categories, src.Category)
	}
	return categories
}
