// Package options prices European options with the closed-form
// Black-Scholes model, backing the options calculator endpoint.
package options

import (
	"fmt"
	"math"

	"github.com/marketpulse/pulse/internal/core"
)

// Kind selects the option side.
type Kind string

const (
	Call Kind = "call"
	Put  Kind = "put"
)

// Inputs are the Black-Scholes parameters. Time is in years, rate and
// volatility are annualized decimals (0.05 = 5%).
type Inputs struct {
	Kind       Kind    `json:"kind"`
	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	Time       float64 `json:"time"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`
}

// Result holds the option price and greeks.
type Result struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// Validate checks the inputs for domain errors.
func (in Inputs) Validate() error {
	if in.Kind != Call && in.Kind != Put {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("kind must be call or put, got %q", in.Kind))
	}
	if in.Spot <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("spot must be positive, got %v", in.Spot))
	}
	if in.Strike <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("strike must be positive, got %v", in.Strike))
	}
	if in.Time <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("time to expiry must be positive, got %v", in.Time))
	}
	if in.Volatility <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("volatility must be positive, got %v", in.Volatility))
	}
	return nil
}

// Price computes the Black-Scholes price and greeks. Vega and rho are
// per percentage point; theta is per calendar day.
func Price(in Inputs) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sqrtT := math.Sqrt(in.Time)
	d1 := (math.Log(in.Spot/in.Strike) + (in.Rate+in.Volatility*in.Volatility/2)*in.Time) / (in.Volatility * sqrtT)
	d2 := d1 - in.Volatility*sqrtT

	discount := math.Exp(-in.Rate * in.Time)
	pdfD1 := normPDF(d1)

	r := &Result{
		Gamma: pdfD1 / (in.Spot * in.Volatility * sqrtT),
		Vega:  in.Spot * pdfD1 * sqrtT / 100,
	}

	switch in.Kind {
	case Call:
		r.Price = in.Spot*normCDF(d1) - in.Strike*discount*normCDF(d2)
		r.Delta = normCDF(d1)
		r.Theta = (-in.Spot*pdfD1*in.Volatility/(2*sqrtT) - in.Rate*in.Strike*discount*normCDF(d2)) / 365
		r.Rho = in.Strike * in.Time * discount * normCDF(d2) / 100
	case Put:
		r.Price = in.Strike*discount*normCDF(-d2) - in.Spot*normCDF(-d1)
		r.Delta = normCDF(d1) - 1
		r.Theta = (-in.Spot*pdfD1*in.Volatility/(2*sqrtT) + in.Rate*in.Strike*discount*normCDF(-d2)) / 365
		r.Rho = -in.Strike * in.Time * discount * normCDF(-d2) / 100
	}

	return r, nil
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
