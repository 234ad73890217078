package quote

import (
	"context"

	"github.com/marketpulse/pulse/internal/core"
)

// Provider defines one external market-data source.
type Provider interface {
	Name() string

	// Supports reports whether the provider can serve the symbol at all.
	// The chain skips providers that do not support a symbol.
	Supports(symbol string) bool

	Fetch(ctx context.Context, symbol string) (*core.Quote, error)
}

// BatchProvider is implemented by providers whose upstream API accepts
// several symbols in one request.
type BatchProvider interface {
	Provider
	FetchBatch(ctx context.Context, symbols []string) (map[string]*core.Quote, error)
}
