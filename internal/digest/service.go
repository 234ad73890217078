package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/marketpulse/pulse/internal/config"
	"github.com/marketpulse/pulse/internal/core"
	"github.com/marketpulse/pulse/internal/storage/cache"
)

// NewsProvider supplies the items the digest analyzes.
type NewsProvider interface {
	Get(ctx context.Context, category core.Category, force bool) []core.NewsItem
}

// Analyzer produces one analysis per category batch.
type Analyzer interface {
	Analyze(ctx context.Context, category core.Category, content string) (*core.Analysis, error)
}

// Metrics is the subset of the metrics registry the digest service uses.
type Metrics interface {
	RecordDigestRun(outcome string)
}

// UpdateFunc is invoked after each category completes, so consumers can
// render partial results while the run is still in flight.
type UpdateFunc func(category core.Category, analysis core.Analysis)

// payloadItem is the shape of one news item inside the analysis prompt.
type payloadItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Service runs the category-batched digest: it groups recent news by
// category, sends one batch per category to the analyzer with a
// rate-limit gap between calls, and persists the combined record.
type Service struct {
	news     NewsProvider
	analyzer Analyzer
	store    cache.Store
	cfg      config.AnalysisConfig
	logger   *zap.Logger
	metrics  Metrics
	onUpdate UpdateFunc

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	current *cache.Record
}

// NewService creates a digest service. metrics and onUpdate may be nil.
func NewService(news NewsProvider, analyzer Analyzer, store cache.Store, cfg config.AnalysisConfig, logger *zap.Logger, metrics Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		news:     news,
		analyzer: analyzer,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// OnUpdate registers the per-category completion callback. Must be set
// before the first Run.
func (s *Service) OnUpdate(fn UpdateFunc) {
	s.onUpdate = fn
}

// SetClock overrides the time source and sleeper (for testing).
func (s *Service) SetClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) {
	s.now = now
	s.sleep = sleep
}

// Current returns the most recent record held in memory, or nil when no
// run has completed and nothing has been loaded from the store.
func (s *Service) Current() *cache.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Running reports whether a digest run is in flight.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop cancels an in-flight run, if any.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Run executes one digest pass and returns the resulting record. A
// second Run while one is in flight returns ErrDigestRunning. Unless
// force is set, a stored record younger than the digest TTL is returned
// without calling the analyzer at all.
func (s *Service) Run(ctx context.Context, force bool) (*cache.Record, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, core.ErrDigestRunning
	}
	s.running = true
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	if !force {
		if record := s.loadFresh(ctx); record != nil {
			if s.metrics != nil {
				s.metrics.RecordDigestRun("cached")
			}
			return record, nil
		}
	}

	record, err := s.run(ctx, force)
	if s.metrics != nil {
		switch {
		case err != nil:
			s.metrics.RecordDigestRun("error")
		case len(record.Analyses) < len(record.Categories):
			s.metrics.RecordDigestRun("partial")
		default:
			s.metrics.RecordDigestRun("success")
		}
	}
	return record, err
}

// loadFresh returns the stored record when both the last-run marker and
// the record's own timestamp are younger than the digest TTL, nil
// otherwise. The marker and record are written independently, so a
// fresh marker can sit over a stale or missing record after a partial
// write.
func (s *Service) loadFresh(ctx context.Context) *cache.Record {
	lastRun, err := cache.ReadLastRun(ctx, s.store)
	if err != nil || s.now().Sub(lastRun) >= s.cfg.DigestTTL {
		return nil
	}
	record, err := cache.ReadRecord(ctx, s.store)
	if err != nil {
		s.logger.Warn("fresh marker but no readable record", zap.Error(err))
		return nil
	}
	if !record.Fresh(s.cfg.DigestTTL, s.now()) {
		s.logger.Warn("fresh marker over a stale record",
			zap.Time("record", record.Timestamp),
			zap.Time("last_run", lastRun),
		)
		return nil
	}
	s.mu.Lock()
	s.current = record
	s.mu.Unlock()
	return record
}

func (s *Service) run(ctx context.Context, force bool) (*cache.Record, error) {
	items := s.news.Get(ctx, "", force)
	batches := groupByCategory(items, s.cfg.ItemsPerCategory)
	if len(batches) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no news items to analyze"))
	}

	categories := make([]core.Category, 0, len(batches))
	for category := range batches {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	if s.cfg.InitialDelay > 0 {
		if err := s.sleep(ctx, s.cfg.InitialDelay); err != nil {
			return nil, err
		}
	}

	limiter := &Limiter{interval: s.cfg.CallGap, now: s.now, sleep: s.sleep}

	record := &cache.Record{
		Timestamp:  s.now(),
		Analyses:   make(map[core.Category]core.Analysis, len(categories)),
		Categories: categories,
	}

	for _, category := range categories {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		payload, err := json.Marshal(batches[category])
		if err != nil {
			return nil, fmt.Errorf("marshaling batch for %s: %w", category, err)
		}

		analysis, err := s.analyzer.Analyze(ctx, category, string(payload))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("category analysis failed",
				zap.String("category", string(category)),
				zap.Error(err),
			)
			continue
		}

		record.Analyses[category] = *analysis
		if s.onUpdate != nil {
			s.onUpdate(category, *analysis)
		}
		s.logger.Debug("category analyzed",
			zap.String("category", string(category)),
			zap.String("sentiment", string(analysis.Sentiment)),
		)
	}

	record.Timestamp = s.now()

	s.mu.Lock()
	s.current = record
	s.mu.Unlock()

	if err := cache.WriteRecord(ctx, s.store, *record); err != nil {
		s.logger.Warn("persisting digest record failed", zap.Error(err))
	}
	if err := cache.WriteLastRun(ctx, s.store, record.Timestamp); err != nil {
		s.logger.Warn("persisting last-run marker failed", zap.Error(err))
	}

	s.logger.Info("digest run complete",
		zap.Int("categories", len(categories)),
		zap.Int("analyzed", len(record.Analyses)),
	)
	return record, nil
}

// groupByCategory buckets items by category, dropping items whose
// category is unknown, and caps each bucket at limit items. Items are
// assumed to arrive newest first, so the cap keeps the freshest ones.
func groupByCategory(items []core.NewsItem, limit int) map[core.Category][]payloadItem {
	batches := make(map[core.Category][]payloadItem)
	for _, item := range items {
		if _, ok := item.Category.DisplayName(); !ok {
			continue
		}
		if len(batches[item.Category]) >= limit {
			continue
		}
		batches[item.Category] = append(batches[item.Category], payloadItem{
			Title:       item.Title,
			Description: item.Description,
			Source:      item.Source,
		})
	}
	return batches
}
