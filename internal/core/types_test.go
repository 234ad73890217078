package core

import (
	"testing"
	"time"
)

func TestQuote_IsValid(t *testing.T) {
	q := Quote{
		Symbol:        "AAPL",
		Price:         187.42,
		ChangePercent: 1.2,
		Volume:        48211000,
		Time:          time.Now(),
	}

	if !q.IsValid() {
		t.Error("expected valid quote")
	}

	invalid := Quote{Symbol: "", Price: 0}
	if invalid.IsValid() {
		t.Error("expected invalid quote")
	}

	negative := Quote{Symbol: "AAPL", Price: -1}
	if negative.IsValid() {
		t.Error("expected negative price to be invalid")
	}
}

func TestCategory_DisplayName(t *testing.T) {
	tests := []struct {
		category Category
		want     string
		known    bool
	}{
		{CategoryEconomy, "Economy", true},
		{CategoryTechnology, "Technology", true},
		{CategoryCrypto, "Crypto", true},
		{Category("gossip"), "", false},
	}
	for _, tt := range tests {
		got, ok := tt.category.DisplayName()
		if got != tt.want || ok != tt.known {
			t.Errorf("DisplayName(%s) = (%q, %v), want (%q, %v)", tt.category, got, ok, tt.want, tt.known)
		}
	}
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		in   string
		want Sentiment
	}{
		{"positive", SentimentPositive},
		{"POSITIVE", SentimentPositive},
		{" negative ", SentimentNegative},
		{"neutral", SentimentNeutral},
		{"bullish", SentimentNeutral},
		{"", SentimentNeutral},
	}
	for _, tt := range tests {
		if got := ParseSentiment(tt.in); got != tt.want {
			t.Errorf("ParseSentiment(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseImpact(t *testing.T) {
	tests := []struct {
		in   string
		want Impact
	}{
		{"high", ImpactHigh},
		{"Low", ImpactLow},
		{"medium", ImpactMedium},
		{"severe", ImpactMedium},
		{"", ImpactMedium},
	}
	for _, tt := range tests {
		if got := ParseImpact(tt.in); got != tt.want {
			t.Errorf("ParseImpact(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAnalysis_IsValid(t *testing.T) {
	tests := []struct {
		name string
		a    Analysis
		want bool
	}{
		{"valid", Analysis{Summary: "s", Sentiment: SentimentNeutral, MarketImpact: ImpactMedium, Keywords: []string{"markets"}}, true},
		{"no summary", Analysis{Sentiment: SentimentNeutral, MarketImpact: ImpactMedium, Keywords: []string{"markets"}}, false},
		{"no keywords", Analysis{Summary: "s", Sentiment: SentimentNeutral, MarketImpact: ImpactMedium}, false},
		{"no sentiment", Analysis{Summary: "s", MarketImpact: ImpactMedium, Keywords: []string{"markets"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}
