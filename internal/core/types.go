package core

import (
	"strings"
	"time"
)

// Category labels a news topic, used both to filter feeds and to batch
// analysis calls.
type Category string

const (
	CategoryEconomy    Category = "economy"
	CategoryMarkets    Category = "markets"
	CategoryTechnology Category = "technology"
	CategoryCrypto     Category = "crypto"
	CategoryCommodity  Category = "commodity"
	CategoryPolicy     Category = "policy"
)

// categoryNames maps categories to their display names. Categories without
// an entry are skipped by the digest orchestrator.
var categoryNames = map[Category]string{
	CategoryEconomy:    "Economy",
	CategoryMarkets:    "Markets",
	CategoryTechnology: "Technology",
	CategoryCrypto:     "Crypto",
	CategoryCommodity:  "Commodities",
	CategoryPolicy:     "Policy",
}

// DisplayName returns the human-readable name for a category and whether
// the category is known.
func (c Category) DisplayName() (string, bool) {
	name, ok := categoryNames[c]
	return name, ok
}

// Quote represents a real-time price quote for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Time          time.Time `json:"time"`
	Source        string    `json:"source"`
}

// IsValid checks that the quote is well-formed enough to serve.
func (q Quote) IsValid() bool {
	return q.Symbol != "" && q.Price > 0
}

// NewsItem is one normalized feed entry.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Category    Category  `json:"category"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// Sentiment is the direction label attached to an analysis.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment normalizes a raw sentiment string, defaulting to neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Impact is the market-impact label attached to an analysis.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// ParseImpact normalizes a raw impact string, defaulting to medium.
func ParseImpact(s string) Impact {
	switch Impact(strings.ToLower(strings.TrimSpace(s))) {
	case ImpactHigh:
		return ImpactHigh
	case ImpactLow:
		return ImpactLow
	default:
		return ImpactMedium
	}
}

// Analysis is the structured output of one category analysis call.
type Analysis struct {
	Summary         string    `json:"summary"`
	KeyPoints       []string  `json:"key_points"`
	Sentiment       Sentiment `json:"sentiment"`
	MarketImpact    Impact    `json:"market_impact"`
	Recommendations []string  `json:"recommendations"`
	Keywords        []string  `json:"keywords"`
	References      []string  `json:"references"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsValid checks that an analysis has every required field populated.
func (a Analysis) IsValid() bool {
	return a.Summary != "" && a.Sentiment != "" && a.MarketImpact != "" && len(a.Keywords) > 0
}
