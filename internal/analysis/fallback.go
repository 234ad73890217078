package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/marketpulse/pulse/internal/core"
)

const fallbackSummaryLimit = 300

// financeVocabulary is the fixed term list keyword extraction matches
// input words against.
var financeVocabulary = map[string]struct{}{
	"stocks":     {},
	"stock":      {},
	"market":     {},
	"markets":    {},
	"economy":    {},
	"inflation":  {},
	"rates":      {},
	"fed":        {},
	"earnings":   {},
	"bonds":      {},
	"crypto":     {},
	"bitcoin":    {},
	"ethereum":   {},
	"oil":        {},
	"gold":       {},
	"dollar":     {},
	"recession":  {},
	"growth":     {},
	"gdp":        {},
	"tariffs":    {},
	"trade":      {},
	"tech":       {},
	"ai":         {},
	"banks":      {},
	"treasury":   {},
	"dividend":   {},
	"ipo":        {},
	"volatility": {},
	"currency":   {},
	"commodity":  {},
}

var fallbackKeyPoints = []string{
	"Full analysis is temporarily unavailable for this category",
	"Headlines are shown as collected from the configured sources",
	"A fresh analysis will be attempted on the next scheduled run",
}

// Fallback builds a heuristic analysis when the model call failed or its
// output was unusable. rawResponse, when non-empty, seeds the summary so
// the reader still sees whatever text the model produced.
func Fallback(content, rawResponse string) *core.Analysis {
	summary := strings.TrimSpace(rawResponse)
	if summary == "" {
		summary = "Automated analysis unavailable; showing collected headlines without interpretation."
	}
	if len(summary) > fallbackSummaryLimit {
		summary = truncateRunes(summary, fallbackSummaryLimit) + "..."
	}

	return &core.Analysis{
		Summary:      summary,
		KeyPoints:    append([]string(nil), fallbackKeyPoints...),
		Sentiment:    core.SentimentNeutral,
		MarketImpact: core.ImpactMedium,
		Keywords:     ExtractKeywords(content),
	}
}

// truncateRunes cuts s to at most limit bytes without splitting a
// multi-byte rune.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// ExtractKeywords intersects the lowercased input words with the finance
// vocabulary, preserving first-seen order. It never returns an empty
// slice.
func ExtractKeywords(content string) []string {
	seen := make(map[string]struct{})
	var keywords []string

	for _, word := range strings.Fields(strings.ToLower(content)) {
		word = strings.Trim(word, ".,;:!?\"'()[]{}")
		if _, ok := financeVocabulary[word]; !ok {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) >= 8 {
			break
		}
	}

	if len(keywords) == 0 {
		keywords = []string{"markets"}
	}
	return keywords
}
