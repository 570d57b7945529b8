// Package handlers provides HTTP handlers for factor-model estimates.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aristath/frontier/internal/modules/factors"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for factor endpoints.
type Handler struct {
	estimator *factors.Estimator
	log       zerolog.Logger
}

// NewHandler creates a new factors handler.
func NewHandler(estimator *factors.Estimator, log zerolog.Logger) *Handler {
	return &Handler{
		estimator: estimator,
		log:       log.With().Str("handler", "factors").Logger(),
	}
}

// HandleEstimate handles GET /api/factors/estimate/{ticker}
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	exposure, known := h.estimator.Lookup(ticker)
	er := h.estimator.EstimateExpectedReturn(ticker)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ticker":          ticker,
		"expected_return": er,
		"known":           known,
		"exposure":        exposure,
	})
}

// HandleSuggestions handles GET /api/factors/suggestions?market=
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	market := r.URL.Query().Get("market")
	suggestions := h.estimator.Suggest(market)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"market":      strings.ToUpper(strings.TrimSpace(market)),
		"suggestions": suggestions,
	})
}
