package api

import (
	"encoding/json"
	"net/http"

	"github.com/marketpulse/pulse/internal/api/response"
	"github.com/marketpulse/pulse/internal/core"
	"github.com/marketpulse/pulse/internal/options"
)

// OptionsHandler prices options for the calculator widget.
type OptionsHandler struct{}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{}
}

// Price computes the Black-Scholes price and greeks for the posted
// inputs.
func (h *OptionsHandler) Price(w http.ResponseWriter, r *http.Request) {
	var in options.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, core.WrapError(core.ErrBadResponse, err))
		return
	}

	result, err := options.Price(in)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
