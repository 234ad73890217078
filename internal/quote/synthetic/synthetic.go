package synthetic

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/marketpulse/pulse/internal/core"
)

// Base prices for commonly watched symbols. Unknown symbols get a
// hash-derived base so repeated requests stay in the same neighborhood.
var basePrices = map[string]float64{
	"AAPL":    190.0,
	"MSFT":    420.0,
	"GOOGL":   165.0,
	"AMZN":    180.0,
	"TSLA":    250.0,
	"NVDA":    880.0,
	"META":    500.0,
	"SPY":     520.0,
	"QQQ":     440.0,
	"DIA":     390.0,
	"BTC-USD": 65000.0,
	"ETH-USD": 3500.0,
	"SOL-USD": 150.0,
}

// maxDriftPercent bounds the perturbation applied to a base price.
const maxDriftPercent = 2.5

// Synthetic generates plausible quotes when every real provider has
// failed. It never errors, so it terminates any provider chain.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates a Synthetic provider.
func New() *Synthetic {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed creates a Synthetic provider with a fixed seed (for testing).
func NewWithSeed(seed int64) *Synthetic {
	return &Synthetic{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

func (s *Synthetic) Name() string {
	return "synthetic"
}

// Supports always reports true; this is the chain's terminal element.
func (s *Synthetic) Supports(symbol string) bool {
	return symbol != ""
}

// Fetch synthesizes a quote from the base-price table plus a bounded
// random drift.
func (s *Synthetic) Fetch(ctx context.Context, symbol string) (*core.Quote, error) {
	s.mu.Lock()
	drift := (s.rng.Float64()*2 - 1) * maxDriftPercent
	volume := 1_000_000 + s.rng.Int63n(50_000_000)
	s.mu.Unlock()

	base := basePrice(symbol)
	price := base * (1 + drift/100)

	return &core.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        price - base,
		ChangePercent: drift,
		Volume:        volume,
		Time:          s.now(),
		Source:        "synthetic",
	}, nil
}

func basePrice(symbol string) float64 {
	if base, ok := basePrices[symbol]; ok {
		return base
	}
	h := fnv.New32a()
	h.Write([]byte(symbol))
	// Map the hash into [10, 500).
	return 10 + float64(h.Sum32()%490)
}
