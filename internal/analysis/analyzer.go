package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/marketpulse/pulse/internal/core"
	"github.com/marketpulse/pulse/internal/llm"
	"go.uber.org/zap"
)

const (
	// cacheKeyPrefixLen bounds how much of the input takes part in the
	// cache key: same category plus same leading content means the same
	// batch of headlines.
	cacheKeyPrefixLen = 100

	systemPrompt = "You are a financial news analyst. You respond with a single JSON object and nothing else."

	promptTemplate = `Analyze the following %s news items and respond with a JSON object containing exactly these fields:
- "summary": a 2-3 sentence overview of the developments
- "key_points": an array of 3-5 short bullet strings
- "sentiment": one of "positive", "negative", "neutral"
- "market_impact": one of "high", "medium", "low"
- "recommendations": an array of 1-3 short suggestions for investors
- "keywords": an array of 3-8 lowercase topic keywords
- "references": an array of the source names cited

News items:
%s`
)

// Metrics is the subset of the metrics registry the analyzer uses.
type Metrics interface {
	RecordAnalysisCall(outcome string)
	RecordCacheEvent(cache string, hit bool)
}

type cacheEntry struct {
	result    *core.Analysis
	createdAt time.Time
}

// Analyzer turns raw news text into a structured per-category analysis,
// caching results and degrading to a heuristic when the model output is
// unusable.
type Analyzer struct {
	client  llm.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// New creates an analyzer. metrics may be nil.
func New(client llm.Client, ttl time.Duration, logger *zap.Logger, metrics Metrics) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
}

// SetClock overrides the time source (for testing).
func (a *Analyzer) SetClock(now func() time.Time) {
	a.now = now
}

// Analyze produces a structured analysis for the category's content.
// Model and transport failures degrade to a heuristic result instead of
// an error; every result is cached for the configured window.
func (a *Analyzer) Analyze(ctx context.Context, category core.Category, content string) (*core.Analysis, error) {
	if content == "" {
		return nil, core.WrapError(core.ErrAnalysisFailed, fmt.Errorf("empty content"))
	}

	key := cacheKey(category, content)
	if cached, ok := a.cached(key); ok {
		a.recordCache(true)
		return cached, nil
	}
	a.recordCache(false)

	result := a.analyze(ctx, category, content)
	result.CreatedAt = a.now()

	a.mu.Lock()
	a.cache[key] = cacheEntry{result: result, createdAt: a.now()}
	a.mu.Unlock()

	return result, nil
}

func (a *Analyzer) analyze(ctx context.Context, category core.Category, content string) *core.Analysis {
	resp, err := a.client.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      fmt.Sprintf(promptTemplate, category, content),
		MaxTokens:   1024,
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		a.logger.Warn("completion call failed, using heuristic result",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		a.recordCall("error")
		return Fallback(content, "")
	}

	result, err := parseResult(resp.Content)
	if err != nil {
		a.logger.Warn("unparseable model output, using heuristic result",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		a.recordCall("fallback")
		return Fallback(content, resp.Content)
	}

	a.recordCall("success")
	return result
}

// rawResult mirrors the JSON shape requested from the model. Decoding
// into it is the shape check: a response missing the summary or carrying
// the wrong types is rejected before anything trusts it.
type rawResult struct {
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points"`
	Sentiment       string   `json:"sentiment"`
	MarketImpact    string   `json:"market_impact"`
	Recommendations []string `json:"recommendations"`
	Keywords        []string `json:"keywords"`
	References      []string `json:"references"`
}

func parseResult(content string) (*core.Analysis, error) {
	blob, ok := extractJSON(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	if strings.TrimSpace(raw.Summary) == "" {
		return nil, fmt.Errorf("analysis missing summary")
	}

	keywords := raw.Keywords
	if len(keywords) == 0 {
		keywords = ExtractKeywords(raw.Summary)
	}

	return &core.Analysis{
		Summary:         strings.TrimSpace(raw.Summary),
		KeyPoints:       raw.KeyPoints,
		Sentiment:       core.ParseSentiment(raw.Sentiment),
		MarketImpact:    core.ParseImpact(raw.MarketImpact),
		Recommendations: raw.Recommendations,
		Keywords:        keywords,
		References:      raw.References,
	}, nil
}

// extractJSON returns the first balanced top-level {...} substring.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func cacheKey(category core.Category, content string) string {
	prefix := content
	if len(prefix) > cacheKeyPrefixLen {
		prefix = prefix[:cacheKeyPrefixLen]
	}
	return string(category) + ":" + prefix
}

func (a *Analyzer) cached(key string) (*core.Analysis, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, ok := a.cache[key]
	if !ok {
		return nil, false
	}
	if a.now().Sub(entry.createdAt) >= a.ttl {
		return nil, false
	}
	return entry.result, true
}

func (a *Analyzer) recordCall(outcome string) {
	if a.metrics != nil {
		a.metrics.RecordAnalysisCall(outcome)
	}
}

func (a *Analyzer) recordCache(hit bool) {
	if a.metrics != nil {
		a.metrics.RecordCacheEvent("analysis", hit)
	}
}
