package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/marketpulse/pulse/internal/core"
)

const (
	baseURL = "https://api.coingecko.com/api/v3"
)

// Symbol to CoinGecko ID mapping
var symbolToIDMap = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"BNB":   "binancecoin",
	"SOL":   "solana",
	"XRP":   "ripple",
	"DOGE":  "dogecoin",
	"ADA":   "cardano",
	"AVAX":  "avalanche-2",
	"DOT":   "polkadot",
	"MATIC": "matic-network",
	"LINK":  "chainlink",
	"UNI":   "uniswap",
	"ATOM":  "cosmos",
	"LTC":   "litecoin",
	"XLM":   "stellar",
	"NEAR":  "near",
	"ARB":   "arbitrum",
	"OP":    "optimism",
}

// CoinGecko fetches crypto quotes from the simple-price endpoint.
type CoinGecko struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new CoinGecko provider
func New(apiKey string) *CoinGecko {
	return &CoinGecko{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a CoinGecko provider with custom base URL (for testing)
func NewWithBaseURL(apiKey, url string) *CoinGecko {
	c := New(apiKey)
	c.baseURL = url
	return c
}

func (c *CoinGecko) Name() string {
	return "coingecko"
}

// baseSymbol strips a quote-currency suffix: BTC-USD -> BTC.
func baseSymbol(symbol string) string {
	upper := strings.ToUpper(symbol)
	for _, suffix := range []string{"-USDT", "-USD", "USDT"} {
		if s, ok := strings.CutSuffix(upper, suffix); ok && s != "" {
			return s
		}
	}
	return upper
}

// Supports reports whether the symbol maps to a known coin.
func (c *CoinGecko) Supports(symbol string) bool {
	_, ok := symbolToIDMap[baseSymbol(symbol)]
	return ok
}

// Fetch fetches a single quote via the batch endpoint.
func (c *CoinGecko) Fetch(ctx context.Context, symbol string) (*core.Quote, error) {
	quotes, err := c.FetchBatch(ctx, []string{symbol})
	if err != nil {
		return nil, err
	}
	q, ok := quotes[symbol]
	if !ok {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for %s", symbol))
	}
	return q, nil
}

// FetchBatch fetches quotes for several symbols in one request, joining
// their coin IDs with commas as the simple-price endpoint expects.
func (c *CoinGecko) FetchBatch(ctx context.Context, symbols []string) (map[string]*core.Quote, error) {
	ids := make([]string, 0, len(symbols))
	idToSymbol := make(map[string]string, len(symbols))
	for _, s := range symbols {
		id, ok := symbolToIDMap[baseSymbol(s)]
		if !ok {
			continue
		}
		ids = append(ids, id)
		idToSymbol[id] = s
	}
	if len(ids) == 0 {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("no known coins in %v", symbols))
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_vol=true&include_24hr_change=true&include_last_updated_at=true",
		c.baseURL, strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	quotes := make(map[string]*core.Quote, len(result))
	for id, data := range result {
		symbol, ok := idToSymbol[id]
		if !ok {
			continue
		}
		price := data["usd"]
		changePercent := data["usd_24h_change"]
		change := 0.0
		if changePercent > -100 {
			change = price - price/(1+changePercent/100)
		}
		quotes[symbol] = &core.Quote{
			Symbol:        symbol,
			Price:         price,
			Change:        change,
			ChangePercent: changePercent,
			Volume:        int64(data["usd_24h_vol"]),
			Time:          time.Unix(int64(data["last_updated_at"]), 0),
			Source:        "coingecko",
		}
	}
	return quotes, nil
}
