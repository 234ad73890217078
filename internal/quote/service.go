package quote

import (
	"context"
	"sync"
	"time"

	"github.com/marketpulse/pulse/internal/core"
	"go.uber.org/zap"
)

// Metrics is the subset of the metrics registry the quote service uses.
type Metrics interface {
	RecordQuoteFetch(source string)
	RecordCacheEvent(cache string, hit bool)
}

type cacheEntry struct {
	quote     *core.Quote
	fetchedAt time.Time
}

// Service serves quotes through the provider chain with a per-symbol
// TTL cache consulted before any network call.
type Service struct {
	chain   *Chain
	ttl     time.Duration
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewService creates a quote service. metrics may be nil.
func NewService(chain *Chain, ttl time.Duration, logger *zap.Logger, metrics Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		chain:   chain,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
}

// SetClock overrides the time source (for testing).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Get returns a quote for the symbol. A cache entry younger than the TTL
// is returned without a network call unless force is set.
func (s *Service) Get(ctx context.Context, symbol string, force bool) (*core.Quote, error) {
	if !force {
		if q, ok := s.cached(symbol); ok {
			s.recordCache(true)
			return q, nil
		}
		s.recordCache(false)
	}

	q, err := s.chain.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}
	s.store(symbol, q)
	if s.metrics != nil {
		s.metrics.RecordQuoteFetch(q.Source)
	}
	return q, nil
}

// GetBatch returns quotes for all symbols, resolving cache misses through
// the chain's batch path. Symbols that cannot be resolved at all are
// absent from the result.
func (s *Service) GetBatch(ctx context.Context, symbols []string, force bool) map[string]*core.Quote {
	result := make(map[string]*core.Quote, len(symbols))
	var missing []string

	for _, sym := range symbols {
		if !force {
			if q, ok := s.cached(sym); ok {
				s.recordCache(true)
				result[sym] = q
				continue
			}
			s.recordCache(false)
		}
		missing = append(missing, sym)
	}

	if len(missing) == 0 {
		return result
	}

	fetched := s.chain.FetchBatch(ctx, missing)
	for sym, q := range fetched {
		s.store(sym, q)
		if s.metrics != nil {
			s.metrics.RecordQuoteFetch(q.Source)
		}
		result[sym] = q
	}
	return result
}

// Refresh force-fetches all given symbols, warming the cache.
func (s *Service) Refresh(ctx context.Context, symbols []string) {
	n := len(s.GetBatch(ctx, symbols, true))
	s.logger.Debug("quote cache refreshed", zap.Int("requested", len(symbols)), zap.Int("resolved", n))
}

func (s *Service) cached(symbol string) (*core.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[symbol]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.fetchedAt) >= s.ttl {
		return nil, false
	}
	return entry.quote, true
}

func (s *Service) store(symbol string, q *core.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[symbol] = cacheEntry{quote: q, fetchedAt: s.now()}
}

func (s *Service) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheEvent("quotes", hit)
	}
}
