// Package handlers provides HTTP handlers for price history endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aristath/frontier/internal/domain"
	"github.com/aristath/frontier/internal/modules/history"
	"github.com/aristath/frontier/internal/modules/settings"
	"github.com/aristath/frontier/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for history endpoints.
type Handler struct {
	service  *history.Service
	settings *settings.Service
	log      zerolog.Logger
}

// NewHandler creates a new history handler.
func NewHandler(service *history.Service, settings *settings.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		settings: settings,
		log:      log.With().Str("handler", "history").Logger(),
	}
}

// HandleGetPrices handles GET /api/history/{ticker}/prices?limit=N
func (h *Handler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	limit := h.settings.HistoryLookbackDays()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	points, err := h.service.Repo().GetDailyPrices(ticker, limit)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to get prices")
		http.Error(w, "Failed to get prices", http.StatusInternalServerError)
		return
	}
	if len(points) == 0 {
		http.Error(w, "No price history for ticker", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ticker": ticker,
		"prices": points,
	})
}

// HandleGetIndicators handles GET /api/history/{ticker}/indicators
func (h *Handler) HandleGetIndicators(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.IndicatorSnapshot(ticker, h.settings.HistoryLookbackDays())
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			http.Error(w, "No price history for ticker", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to compute indicators")
		http.Error(w, "Failed to compute indicators", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

// syncRequest is the body for POST /api/history/sync.
type syncRequest struct {
	Tickers []string `json:"tickers"`
}

// HandleSync handles POST /api/history/sync
// Seeds any unseen tickers, then refreshes every stored series to today.
// Tickers can come from the JSON body or a comma-separated query param.
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	if len(req.Tickers) == 0 {
		req.Tickers = utils.ParseCSV(r.URL.Query().Get("tickers"))
	}

	for i, t := range req.Tickers {
		req.Tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}

	if len(req.Tickers) > 0 {
		if err := h.service.EnsureSeeded(req.Tickers, h.settings.SyntheticSeedDays()); err != nil {
			h.log.Error().Err(err).Msg("Failed to seed tickers")
			http.Error(w, "Failed to seed tickers", http.StatusInternalServerError)
			return
		}
	}

	updated, err := h.service.RefreshAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to refresh history")
		http.Error(w, "Failed to refresh history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":          "ok",
		"seeded":          len(req.Tickers),
		"tickers_updated": updated,
	})
}
