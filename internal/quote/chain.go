package quote

import (
	"context"
	"fmt"

	"github.com/marketpulse/pulse/internal/core"
	"go.uber.org/zap"
)

// Chain tries a prioritized list of providers and returns the first
// well-formed quote. Malformed results count as failures.
type Chain struct {
	providers []Provider
	logger    *zap.Logger
}

// NewChain creates a provider chain. Order matters: earlier providers win.
func NewChain(logger *zap.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{providers: providers, logger: logger}
}

// Providers returns the configured providers in priority order.
func (c *Chain) Providers() []Provider {
	return c.providers
}

// Fetch returns the first valid quote from the chain.
func (c *Chain) Fetch(ctx context.Context, symbol string) (*core.Quote, error) {
	var lastErr error
	for _, p := range c.providers {
		if !p.Supports(symbol) {
			continue
		}
		q, err := p.Fetch(ctx, symbol)
		if err != nil {
			c.logger.Debug("provider failed",
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		if !q.IsValid() {
			c.logger.Debug("provider returned malformed quote",
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol),
			)
			lastErr = core.WrapError(core.ErrBadResponse, fmt.Errorf("provider %s: invalid quote", p.Name()))
			continue
		}
		return q, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no provider supports %s", symbol)
	}
	return nil, core.WrapError(core.ErrProviderFailed, lastErr)
}

// FetchBatch resolves several symbols, using one upstream request per
// provider where the provider supports batching. Symbols no provider
// could resolve are simply absent from the result.
func (c *Chain) FetchBatch(ctx context.Context, symbols []string) map[string]*core.Quote {
	resolved := make(map[string]*core.Quote, len(symbols))

	for _, p := range c.providers {
		var pending []string
		for _, s := range symbols {
			if _, done := resolved[s]; !done && p.Supports(s) {
				pending = append(pending, s)
			}
		}
		if len(pending) == 0 {
			continue
		}

		if bp, ok := p.(BatchProvider); ok {
			quotes, err := bp.FetchBatch(ctx, pending)
			if err != nil {
				c.logger.Debug("batch fetch failed",
					zap.String("provider", p.Name()),
					zap.Error(err),
				)
				continue
			}
			for s, q := range quotes {
				if q.IsValid() {
					resolved[s] = q
				}
			}
			continue
		}

		for _, s := range pending {
			q, err := p.Fetch(ctx, s)
			if err != nil || !q.IsValid() {
				continue
			}
			resolved[s] = q
		}
	}

	return resolved
}
