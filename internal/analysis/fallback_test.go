package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/marketpulse/pulse/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestFallback_AllFieldsPopulated(t *testing.T) {
	result := Fallback("markets slide on inflation fears", "")

	assert.NotEmpty(t, result.Summary)
	assert.NotEmpty(t, result.KeyPoints)
	assert.Equal(t, core.SentimentNeutral, result.Sentiment)
	assert.Equal(t, core.ImpactMedium, result.MarketImpact)
	assert.NotEmpty(t, result.Keywords)
}

func TestFallback_TruncatesRawResponse(t *testing.T) {
	raw := strings.Repeat("a", 500)
	result := Fallback("content", raw)
	assert.LessOrEqual(t, len(result.Summary), fallbackSummaryLimit+3)
	assert.True(t, strings.HasSuffix(result.Summary, "..."))
}

func TestFallback_TruncationKeepsValidUTF8(t *testing.T) {
	// Multi-byte runes positioned so the byte limit lands mid-rune.
	raw := strings.Repeat("é", fallbackSummaryLimit)
	result := Fallback("content", raw)
	assert.True(t, utf8.ValidString(result.Summary))
	assert.True(t, strings.HasSuffix(result.Summary, "..."))
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"shorter than limit", "abc", 10, "abc"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"mid-rune backs up", "aé", 2, "a"},
		{"rune boundary kept", "aé", 3, "aé"},
		{"all multi-byte", "ééé", 5, "éé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateRunes(tt.in, tt.limit))
		})
	}
}

func TestFallback_UsesRawResponseAsSummary(t *testing.T) {
	result := Fallback("content", "The model said something unstructured.")
	assert.Equal(t, "The model said something unstructured.", result.Summary)
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"finance terms found",
			"The Fed raised rates as inflation cooled; stocks fell.",
			[]string{"fed", "rates", "inflation", "stocks"},
		},
		{
			"dedupes",
			"markets markets markets",
			[]string{"markets"},
		},
		{
			"no matches defaults",
			"quick brown foxes jump",
			[]string{"markets"},
		},
		{
			"strips punctuation",
			"Bitcoin, gold, and oil.",
			[]string{"bitcoin", "gold", "oil"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.in))
		})
	}
}

func TestExtractKeywords_NeverEmpty(t *testing.T) {
	for _, in := range []string{"", "irrelevant words only", "!!!"} {
		assert.NotEmpty(t, ExtractKeywords(in), "input %q", in)
	}
}
