package metrics

import (
	"testing"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func metricValue(t *testing.T, reg *Registry, name string, labels map[string]string) (float64, bool) {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := true
			for _, label := range m.GetLabel() {
				if want, ok := labels[label.GetName()]; ok && want != label.GetValue() {
					matched = false
				}
			}
			if !matched {
				continue
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue(), true
			}
			if m.GetGauge() != nil {
				return m.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func TestRegistry_RecordRequest_StatusCodes(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			reg := NewRegistry()
			reg.RecordRequest("GET", "/test", tt.status, 0.01)

			if _, ok := metricValue(t, reg, "http_requests_total", map[string]string{"status": tt.expected}); !ok {
				t.Errorf("expected status label %s for status code %d", tt.expected, tt.status)
			}
		})
	}
}

func TestRegistry_InFlight(t *testing.T) {
	reg := NewRegistry()

	reg.InFlightInc()
	reg.InFlightInc()
	reg.InFlightDec()

	v, ok := metricValue(t, reg, "http_requests_in_flight", nil)
	if !ok {
		t.Fatal("expected http_requests_in_flight metric")
	}
	if v != 1 {
		t.Errorf("expected in-flight gauge to be 1, got %v", v)
	}
}

func TestRegistry_RecordQuoteFetch(t *testing.T) {
	reg := NewRegistry()

	reg.RecordQuoteFetch("yahoo")
	reg.RecordQuoteFetch("yahoo")
	reg.RecordQuoteFetch("synthetic")

	v, ok := metricValue(t, reg, "pulse_quote_fetches_total", map[string]string{"source": "yahoo"})
	if !ok {
		t.Fatal("expected pulse_quote_fetches_total metric")
	}
	if v != 2 {
		t.Errorf("expected 2 yahoo fetches, got %v", v)
	}
}

func TestRegistry_RecordNewsFetch(t *testing.T) {
	reg := NewRegistry()

	reg.RecordNewsFetch(42)

	v, ok := metricValue(t, reg, "pulse_news_items", nil)
	if !ok {
		t.Fatal("expected pulse_news_items metric")
	}
	if v != 42 {
		t.Errorf("expected item gauge 42, got %v", v)
	}
}

func TestRegistry_RecordAnalysisCall(t *testing.T) {
	reg := NewRegistry()

	reg.RecordAnalysisCall("success")
	reg.RecordAnalysisCall("fallback")
	reg.RecordAnalysisCall("fallback")

	v, ok := metricValue(t, reg, "pulse_analysis_calls_total", map[string]string{"outcome": "fallback"})
	if !ok {
		t.Fatal("expected pulse_analysis_calls_total metric")
	}
	if v != 2 {
		t.Errorf("expected 2 fallback calls, got %v", v)
	}
}

func TestRegistry_RecordDigestRun(t *testing.T) {
	reg := NewRegistry()

	reg.RecordDigestRun("success")

	if _, ok := metricValue(t, reg, "pulse_digest_runs_total", map[string]string{"outcome": "success"}); !ok {
		t.Error("expected pulse_digest_runs_total metric")
	}
}

func TestRegistry_RecordCacheEvent(t *testing.T) {
	reg := NewRegistry()

	reg.RecordCacheEvent("quotes", true)
	reg.RecordCacheEvent("quotes", false)
	reg.RecordCacheEvent("quotes", false)

	hits, ok := metricValue(t, reg, "pulse_cache_events_total", map[string]string{"cache": "quotes", "result": "hit"})
	if !ok {
		t.Fatal("expected pulse_cache_events_total metric")
	}
	if hits != 1 {
		t.Errorf("expected 1 hit, got %v", hits)
	}
	misses, _ := metricValue(t, reg, "pulse_cache_events_total", map[string]string{"cache": "quotes", "result": "miss"})
	if misses != 2 {
		t.Errorf("expected 2 misses, got %v", misses)
	}
}
