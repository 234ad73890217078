package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/marketpulse/pulse/internal/api/handler/api"
	"github.com/marketpulse/pulse/internal/api/handler/web"
	"github.com/marketpulse/pulse/internal/api/job"
	"github.com/marketpulse/pulse/internal/api/middleware"
	"github.com/marketpulse/pulse/internal/metrics"
)

// Server is the HTTP server for the dashboard and its API.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	jobs       *job.Store
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	APIKey       string
	TemplatesDir string
	MetricsPath  string
	JobTTL       time.Duration
	MaxJobs      int
	DigestTTL    time.Duration
	Symbols      []string
}

// Services are the backends the handlers serve from.
type Services struct {
	Quotes apihandler.QuoteService
	News   apihandler.NewsService
	Digest apihandler.DigestService
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(cfg Config, svcs Services, logger *zap.Logger, registry *metrics.Registry) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
		jobs:   job.NewStore(cfg.MaxJobs, cfg.JobTTL),
	}

	if err := s.setupRoutes(cfg, svcs, registry); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes(cfg Config, svcs Services, registry *metrics.Registry) error {
	// Web UI routes
	webHandler, err := web.NewHandler(cfg.TemplatesDir, cfg.Symbols)
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	s.mux.HandleFunc("GET /", webHandler.Dashboard)
	s.mux.HandleFunc("GET /trading", webHandler.Trading)
	s.mux.HandleFunc("GET /news", webHandler.News)

	// API routes behind key auth
	quotes := apihandler.NewQuotesHandler(svcs.Quotes, cfg.Symbols)
	news := apihandler.NewNewsHandler(svcs.News)
	digest := apihandler.NewDigestHandler(svcs.Digest, s.jobs, cfg.DigestTTL)
	jobs := apihandler.NewJobsHandler(s.jobs)
	widgets := apihandler.NewWidgetsHandler(cfg.Symbols)
	options := apihandler.NewOptionsHandler()

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/quotes", quotes.List)
	apiMux.HandleFunc("GET /api/quotes/{symbol}", quotes.GetOne)
	apiMux.HandleFunc("GET /api/news", news.List)
	apiMux.HandleFunc("GET /api/news/categories", news.Categories)
	apiMux.HandleFunc("GET /api/digest", digest.Get)
	apiMux.HandleFunc("POST /api/digest/run", digest.Trigger)
	apiMux.HandleFunc("GET /api/jobs", jobs.List)
	apiMux.HandleFunc("GET /api/jobs/{id}", jobs.Get)
	apiMux.HandleFunc("GET /api/widgets/{kind}", widgets.Get)
	apiMux.HandleFunc("POST /api/options/price", options.Price)

	var apiHandler http.Handler = apiMux
	apiHandler = middleware.APIKeyAuth(cfg.APIKey)(apiHandler)
	if registry != nil {
		apiHandler = metrics.HTTPMiddleware(registry)(apiHandler)
	}
	apiHandler = metrics.LoggingMiddleware(s.logger)(apiHandler)
	s.mux.Handle("/api/", apiHandler)

	// Health and metrics stay outside auth so probes and scrapers work.
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	if registry != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return nil
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the root handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
