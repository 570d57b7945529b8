package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/frontier/internal/domain"
	"github.com/aristath/frontier/internal/modules/backtest"
	"github.com/aristath/frontier/internal/modules/calculations"
	"github.com/aristath/frontier/internal/modules/factors"
	"github.com/aristath/frontier/internal/modules/history"
	"github.com/aristath/frontier/internal/modules/settings"
	"github.com/aristath/frontier/internal/modules/simulation"
	"github.com/aristath/frontier/internal/modules/statistics"
)

const cacheCategoryOptimize = "optimize"

// EngineHandlers orchestrates the core engine endpoints: optimization and
// backtesting. It pulls history, applies settings, runs the simulation and
// caches results.
type EngineHandlers struct {
	history   *history.Service
	settings  *settings.Service
	estimator *factors.Estimator
	optimizer *simulation.Optimizer
	backtest  *backtest.Service
	cache     *calculations.Cache
	log       zerolog.Logger
}

// NewEngineHandlers creates the engine handler set.
func NewEngineHandlers(
	historyService *history.Service,
	settingsService *settings.Service,
	estimator *factors.Estimator,
	optimizer *simulation.Optimizer,
	backtestService *backtest.Service,
	cache *calculations.Cache,
	log zerolog.Logger,
) *EngineHandlers {
	return &EngineHandlers{
		history:   historyService,
		settings:  settingsService,
		estimator: estimator,
		optimizer: optimizer,
		backtest:  backtestService,
		cache:     cache,
		log:       log.With().Str("handler", "engine").Logger(),
	}
}

// optimizeRequest is the body for POST /api/optimize.
type optimizeRequest struct {
	Tickers           []string           `json:"tickers"`
	Iterations        int                `json:"iterations,omitempty"`
	RiskFreeRate      *float64           `json:"risk_free_rate,omitempty"`
	ExpectedReturns   map[string]float64 `json:"expected_returns,omitempty"` // annual %, overrides historical means
	IncludeCandidates bool               `json:"include_candidates,omitempty"`
}

// optimizeResponse is the serialized optimization result. The full
// candidate population is omitted unless explicitly requested; the three
// extremal portfolios cover the common use.
type optimizeResponse struct {
	Tickers    []string                        `json:"tickers" msgpack:"tickers"`
	Iterations int                             `json:"iterations" msgpack:"iterations"`
	Accepted   int                             `json:"accepted" msgpack:"accepted"`
	Degenerate bool                            `json:"degenerate" msgpack:"degenerate"`
	MinRisk    simulation.PortfolioCandidate   `json:"min_risk" msgpack:"min_risk"`
	MaxSharpe  simulation.PortfolioCandidate   `json:"max_sharpe" msgpack:"max_sharpe"`
	MaxReturn  simulation.PortfolioCandidate   `json:"max_return" msgpack:"max_return"`
	Matrices   *statistics.Matrices            `json:"matrices" msgpack:"matrices"`
	Candidates []simulation.PortfolioCandidate `json:"candidates,omitempty" msgpack:"-"`
	Cached     bool                            `json:"cached" msgpack:"-"`
}

// HandleOptimize handles POST /api/optimize
func (h *EngineHandlers) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tickers := normalizeTickers(req.Tickers)
	if len(tickers) == 0 {
		http.Error(w, "At least one ticker is required", http.StatusBadRequest)
		return
	}

	iterations := req.Iterations
	if iterations <= 0 {
		iterations = h.settings.OptimizerIterations()
	}
	riskFreeRate := h.settings.RiskFreeRate()
	if req.RiskFreeRate != nil {
		riskFreeRate = *req.RiskFreeRate
	}

	// Mean overrides change the result, so those runs bypass the cache.
	cacheable := len(req.ExpectedReturns) == 0 && !req.IncludeCandidates
	cacheKey := calculations.HashOptimizeKey(tickers, iterations, riskFreeRate)

	if cacheable {
		if data, ok := h.cache.Get(cacheCategoryOptimize, cacheKey); ok {
			var resp optimizeResponse
			if err := msgpack.Unmarshal(data, &resp); err == nil {
				resp.Cached = true
				writeJSON(w, resp)
				return
			}
			h.log.Warn().Msg("Failed to unmarshal cached optimization, recomputing")
		}
	}

	stats, err := h.history.AssetStatisticsBatch(tickers, h.settings.HistoryLookbackDays())
	if err != nil {
		h.writeEngineError(w, err, "Failed to build asset statistics")
		return
	}

	// Override keys get the same normalization as the tickers field.
	overrides := make(map[string]float64, len(req.ExpectedReturns))
	for t, er := range req.ExpectedReturns {
		overrides[strings.ToUpper(strings.TrimSpace(t))] = er
	}
	for i := range stats {
		if er, ok := overrides[stats[i].Ticker]; ok {
			// Annual percent to daily fraction, matching the historical means.
			stats[i] = stats[i].WithMeanReturn(er / 100 / domain.TradingDaysPerYear)
		}
	}

	matrices, err := statistics.BuildMatrices(stats)
	if err != nil {
		h.writeEngineError(w, err, "Failed to build covariance matrices")
		return
	}

	result, err := h.optimizer.Run(stats, matrices, simulation.Config{
		Iterations:   iterations,
		RiskFreeRate: riskFreeRate,
	})
	if err != nil {
		h.writeEngineError(w, err, "Optimization failed")
		return
	}

	resp := optimizeResponse{
		Tickers:    tickers,
		Iterations: result.Iterations,
		Accepted:   result.Accepted,
		Degenerate: result.Degenerate,
		MinRisk:    result.MinRisk,
		MaxSharpe:  result.MaxSharpe,
		MaxReturn:  result.MaxReturn,
		Matrices:   result.Matrices,
	}
	if req.IncludeCandidates {
		resp.Candidates = result.Candidates
	}

	if cacheable {
		if data, err := msgpack.Marshal(resp); err == nil {
			if err := h.cache.Set(cacheCategoryOptimize, cacheKey, data, calculations.TTLOptimizer); err != nil {
				h.log.Warn().Err(err).Msg("Failed to cache optimization result")
			}
		}
	}

	writeJSON(w, resp)
}

// backtestRequest is the body for POST /api/backtest.
type backtestRequest struct {
	Tickers      []string               `json:"tickers"`
	Weights      []float64              `json:"weights"`
	StartDate    string                 `json:"start_date"`
	TotalCapital float64                `json:"total_capital,omitempty"`
	Expectations []backtest.Expectation `json:"expectations,omitempty"`
}

// HandleBacktest handles POST /api/backtest
func (h *EngineHandlers) HandleBacktest(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tickers := normalizeTickers(req.Tickers)
	if len(tickers) == 0 {
		http.Error(w, "At least one ticker is required", http.StatusBadRequest)
		return
	}
	if len(req.Weights) != len(tickers) {
		http.Error(w, "Weights must match tickers", http.StatusBadRequest)
		return
	}
	if req.StartDate == "" {
		http.Error(w, "start_date is required", http.StatusBadRequest)
		return
	}

	totalCapital := req.TotalCapital
	if totalCapital <= 0 {
		totalCapital = h.settings.BacktestDefaultCapital()
	}

	// The backtest only consumes prices and dates, so insufficient series
	// are passed through as-is; the service decides whether missing
	// coverage matters based on the position's weight.
	stats := make([]domain.AssetStatistics, 0, len(tickers))
	for _, ticker := range tickers {
		points, err := h.history.Repo().GetPricesSince(ticker, req.StartDate)
		if err != nil {
			h.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to load prices for backtest")
			http.Error(w, "Failed to load prices", http.StatusInternalServerError)
			return
		}
		asset := domain.AssetStatistics{Ticker: ticker}
		for _, p := range points {
			asset.Prices = append(asset.Prices, p.Close)
			asset.Dates = append(asset.Dates, p.Date)
		}
		stats = append(stats, asset)
	}

	expectations := req.Expectations
	if len(expectations) == 0 {
		// Fall back to the factor model's annual expected returns, scaled
		// to the one-month backtest window.
		for _, ticker := range tickers {
			expectations = append(expectations, backtest.Expectation{
				Ticker:  ticker,
				Percent: h.estimator.EstimateExpectedReturn(ticker) / 12,
			})
		}
	}

	candidate := simulation.PortfolioCandidate{
		ID:      uuid.New().String(),
		Tickers: tickers,
		Weights: req.Weights,
	}

	outcome, err := h.backtest.Run(stats, candidate, req.StartDate, totalCapital, expectations)
	if err != nil {
		h.writeEngineError(w, err, "Backtest failed")
		return
	}

	writeJSON(w, outcome)
}

// writeEngineError maps domain errors to HTTP status codes.
func (h *EngineHandlers) writeEngineError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrInsufficientHistory),
		errors.Is(err, domain.ErrZeroVariance):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.log.Error().Err(err).Msg(msg)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

func normalizeTickers(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
