// Package app wires configuration into services and drives the
// periodic refresh loops.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/marketpulse/pulse/internal/analysis"
	"github.com/marketpulse/pulse/internal/config"
	"github.com/marketpulse/pulse/internal/digest"
	"github.com/marketpulse/pulse/internal/llm/factory"
	"github.com/marketpulse/pulse/internal/metrics"
	"github.com/marketpulse/pulse/internal/news"
	"github.com/marketpulse/pulse/internal/quote"
	"github.com/marketpulse/pulse/internal/quote/coingecko"
	"github.com/marketpulse/pulse/internal/quote/synthetic"
	"github.com/marketpulse/pulse/internal/quote/yahoo"
	"github.com/marketpulse/pulse/internal/storage/cache"
)

// App is the main application orchestrator.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Registry

	Quotes   *quote.Service
	News     *news.Service
	Analyzer *analysis.Analyzer
	Digest   *digest.Service
	Store    cache.Store

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New builds the full service graph from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := metrics.NewRegistry()

	providers := []quote.Provider{
		yahoo.New(),
		coingecko.New(cfg.Quotes.CoinGeckoAPIKey),
	}
	if cfg.Quotes.SyntheticFallback {
		providers = append(providers, synthetic.New())
	}
	chain := quote.NewChain(logger, providers...)
	quotes := quote.NewService(chain, cfg.Quotes.TTL, logger, registry)

	sources, err := news.LoadSources(cfg.News.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("loading feed sources: %w", err)
	}
	fetcher := news.NewRSSFetcher(cfg.News.SourceTimeout)
	newsSvc := news.NewService(sources, fetcher, cfg.News.TTL, logger, registry)

	client, err := factory.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	analyzer := analysis.New(client, cfg.Analysis.ResultTTL, logger, registry)

	store, err := buildStore(cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("building digest store: %w", err)
	}

	digestSvc := digest.NewService(newsSvc, analyzer, store, cfg.Analysis, logger, registry)

	return &App{
		cfg:      cfg,
		logger:   logger,
		metrics:  registry,
		Quotes:   quotes,
		News:     newsSvc,
		Analyzer: analyzer,
		Digest:   digestSvc,
		Store:    store,
	}, nil
}

// buildStore assembles the digest cache: always the local filesystem,
// mirrored to S3 when a bucket is configured.
func buildStore(cfg config.CacheConfig, logger *zap.Logger) (cache.Store, error) {
	local, err := cache.NewLocalFS(cfg.Dir)
	if err != nil {
		return nil, err
	}

	if cfg.S3.Bucket == "" {
		return cache.NewMirror(local, nil, logger), nil
	}

	remote, err := cache.NewS3(cache.S3Config{
		Bucket:    cfg.S3.Bucket,
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Prefix:    cfg.S3.Prefix,
	})
	if err != nil {
		return nil, err
	}
	return cache.NewMirror(local, remote, logger), nil
}

// Metrics exposes the shared registry for the HTTP server.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Start runs the refresh loops until the context is cancelled: quotes
// at the quote refresh interval, news at the news refresh interval, a
// digest run at the digest interval. Failures are logged; the next tick
// is the retry.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("app already running")
	}
	a.running = true
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	a.logger.Info("pulse starting",
		zap.Strings("symbols", a.cfg.Quotes.Symbols),
		zap.Duration("quote_interval", a.cfg.Quotes.RefreshInterval),
		zap.Duration("news_interval", a.cfg.News.RefreshInterval),
		zap.Duration("digest_interval", a.cfg.Analysis.DigestInterval),
	)

	// Warm up caches, then kick off the first digest in the background
	// so Start does not block on LLM calls.
	a.refreshQuotes(ctx)
	a.refreshNews(ctx)
	go a.runDigest(ctx)

	quoteTicker := time.NewTicker(a.cfg.Quotes.RefreshInterval)
	newsTicker := time.NewTicker(a.cfg.News.RefreshInterval)
	digestTicker := time.NewTicker(a.cfg.Analysis.DigestInterval)
	defer quoteTicker.Stop()
	defer newsTicker.Stop()
	defer digestTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("pulse shutting down")
			a.mu.Lock()
			a.running = false
			a.mu.Unlock()
			return ctx.Err()
		case <-quoteTicker.C:
			a.refreshQuotes(ctx)
		case <-newsTicker.C:
			a.refreshNews(ctx)
		case <-digestTicker.C:
			go a.runDigest(ctx)
		}
	}
}

// Stop stops the refresh loops and any in-flight digest run.
func (a *App) Stop() {
	a.Digest.Stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// RunDigestOnce runs one digest pass, bypassing the staleness check.
func (a *App) RunDigestOnce(ctx context.Context) (*cache.Record, error) {
	return a.Digest.Run(ctx, true)
}

func (a *App) refreshQuotes(ctx context.Context) {
	if len(a.cfg.Quotes.Symbols) == 0 {
		return
	}
	a.Quotes.Refresh(ctx, a.cfg.Quotes.Symbols)
	a.logger.Debug("quotes refreshed", zap.Int("symbols", len(a.cfg.Quotes.Symbols)))
}

func (a *App) refreshNews(ctx context.Context) {
	items := a.News.Get(ctx, "", true)
	a.logger.Debug("news refreshed", zap.Int("items", len(items)))
}

func (a *App) runDigest(ctx context.Context) {
	if _, err := a.Digest.Run(ctx, false); err != nil {
		a.logger.Warn("digest run failed", zap.Error(err))
	}
}
