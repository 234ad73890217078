package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	quoteFetches  *prometheus.CounterVec
	newsFetched   prometheus.Counter
	newsItems     prometheus.Gauge
	analysisCalls *prometheus.CounterVec
	digestRuns    *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.quoteFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_quote_fetches_total",
			Help: "Total number of quote fetches by provider",
		},
		[]string{"source"},
	)
	r.newsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pulse_news_fetches_total",
			Help: "Total number of news feed refreshes",
		},
	)
	r.newsItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulse_news_items",
			Help: "Number of items returned by the last news refresh",
		},
	)
	r.analysisCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_analysis_calls_total",
			Help: "Total number of analysis calls by outcome",
		},
		[]string{"outcome"},
	)
	r.digestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_digest_runs_total",
			Help: "Total number of digest runs by outcome",
		},
		[]string{"outcome"},
	)
	r.cacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_cache_events_total",
			Help: "Cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)

	reg.MustRegister(r.quoteFetches)
	reg.MustRegister(r.newsFetched)
	reg.MustRegister(r.newsItems)
	reg.MustRegister(r.analysisCalls)
	reg.MustRegister(r.digestRuns)
	reg.MustRegister(r.cacheEvents)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordQuoteFetch records one quote fetched from the named provider.
func (r *Registry) RecordQuoteFetch(source string) {
	r.quoteFetches.WithLabelValues(source).Inc()
}

// RecordNewsFetch records a news refresh and the item count it produced.
func (r *Registry) RecordNewsFetch(items int) {
	r.newsFetched.Inc()
	r.newsItems.Set(float64(items))
}

// RecordAnalysisCall records an analysis call outcome
// (success, fallback, or error).
func (r *Registry) RecordAnalysisCall(outcome string) {
	r.analysisCalls.WithLabelValues(outcome).Inc()
}

// RecordDigestRun records a digest run outcome
// (success, partial, cached, or error).
func (r *Registry) RecordDigestRun(outcome string) {
	r.digestRuns.WithLabelValues(outcome).Inc()
}

// RecordCacheEvent records a cache hit or miss for the named cache.
func (r *Registry) RecordCacheEvent(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheEvents.WithLabelValues(cache, result).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
