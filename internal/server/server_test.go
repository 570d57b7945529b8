package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/frontier/internal/config"
	"github.com/aristath/frontier/internal/domain"
	"github.com/aristath/frontier/internal/modules/backtest"
	"github.com/aristath/frontier/internal/modules/calculations"
	"github.com/aristath/frontier/internal/modules/factors"
	"github.com/aristath/frontier/internal/modules/history"
	"github.com/aristath/frontier/internal/modules/settings"
	"github.com/aristath/frontier/internal/modules/simulation"
	frontiertest "github.com/aristath/frontier/internal/testing"
)

// newTestServer wires the full stack over temporary databases.
func newTestServer(t *testing.T) (*Server, *history.Service) {
	t.Helper()

	log := zerolog.Nop()
	historyDB := frontiertest.NewTestDB(t, "history")
	configDB := frontiertest.NewTestDB(t, "config")
	cacheDB := frontiertest.NewTestDB(t, "cache")

	settingsService := settings.NewService(settings.NewRepository(configDB.Conn(), log), log)
	historyService := history.NewService(history.NewRepository(historyDB.Conn(), log), history.NewGenerator(), log)

	srv := New(Config{
		Log:       log,
		Cfg:       &config.Config{DataDir: t.TempDir(), Port: 0, DevMode: true},
		HistoryDB: historyDB,
		ConfigDB:  configDB,
		CacheDB:   cacheDB,
		History:   historyService,
		Settings:  settingsService,
		Estimator: factors.NewEstimator(log),
		Optimizer: simulation.NewSeededOptimizer(42, log),
		Backtest:  backtest.NewService(log),
		Cache:     calculations.NewCache(cacheDB.Conn(), log),
	})
	return srv, historyService
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestSettingsRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/settings/optimizer_iterations", map[string]string{"value": "500"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/settings/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var all map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, "500", all["optimizer_iterations"])
	assert.Equal(t, "0.02", all["risk_free_rate"], "defaults are reported alongside overrides")
}

func TestFactorsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/factors/estimate/aapl", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var est struct {
		Ticker         string  `json:"ticker"`
		ExpectedReturn float64 `json:"expected_return"`
		Known          bool    `json:"known"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &est))
	assert.Equal(t, "AAPL", est.Ticker)
	assert.True(t, est.Known)
	assert.Equal(t, 9.33, est.ExpectedReturn)

	rec = doJSON(t, srv, http.MethodGet, "/api/factors/suggestions?market=US", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sug struct {
		Market      string               `json:"market"`
		Suggestions []factors.Suggestion `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sug))
	assert.Equal(t, "US", sug.Market)
	assert.NotEmpty(t, sug.Suggestions)
	assert.LessOrEqual(t, len(sug.Suggestions), factors.SuggestionLimit)
}

func TestHistoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/history/sync", map[string]interface{}{
		"tickers": []string{"aapl", "msft"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/history/AAPL/prices?limit=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var prices struct {
		Ticker string              `json:"ticker"`
		Prices []domain.PricePoint `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prices))
	assert.Equal(t, "AAPL", prices.Ticker)
	assert.Len(t, prices.Prices, 20)

	rec = doJSON(t, srv, http.MethodGet, "/api/history/AAPL/indicators", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/history/UNKNOWN/prices", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptimizeEndpoint(t *testing.T) {
	srv, historyService := newTestServer(t)
	require.NoError(t, historyService.EnsureSeeded([]string{"AAPL", "MSFT", "NVDA"}, 400))

	body := map[string]interface{}{
		"tickers":    []string{"AAPL", "MSFT", "NVDA"},
		"iterations": 200,
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/optimize", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Tickers    []string                      `json:"tickers"`
		Accepted   int                           `json:"accepted"`
		Degenerate bool                          `json:"degenerate"`
		MaxSharpe  simulation.PortfolioCandidate `json:"max_sharpe"`
		Cached     bool                          `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, resp.Tickers)
	assert.False(t, resp.Cached)
	if !resp.Degenerate {
		assert.Greater(t, resp.Accepted, 0)
		assert.Len(t, resp.MaxSharpe.Weights, 3)
	}

	// Second identical request is served from the cache.
	rec = doJSON(t, srv, http.MethodPost, "/api/optimize", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
}

func TestOptimizeEndpoint_OverrideKeysAreCaseInsensitive(t *testing.T) {
	srv, historyService := newTestServer(t)
	require.NoError(t, historyService.EnsureSeeded([]string{"AAPL", "MSFT", "NVDA"}, 400))

	// A 500%-annual override on AAPL dominates every candidate's return:
	// the minimum 0.1 weight alone contributes 0.5 annually, far above the
	// synthetic drift. Lowercase key must hit the uppercased ticker.
	rec := doJSON(t, srv, http.MethodPost, "/api/optimize", map[string]interface{}{
		"tickers":          []string{"AAPL", "MSFT", "NVDA"},
		"iterations":       200,
		"expected_returns": map[string]float64{"aapl": 500},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Degenerate bool                          `json:"degenerate"`
		MaxReturn  simulation.PortfolioCandidate `json:"max_return"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if !resp.Degenerate {
		assert.Greater(t, resp.MaxReturn.AnnualReturn, 0.3)
	}
}

func TestOptimizeEndpoint_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/optimize", map[string]interface{}{"tickers": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No history stored for the ticker.
	rec = doJSON(t, srv, http.MethodPost, "/api/optimize", map[string]interface{}{
		"tickers": []string{"GHOST"}, "iterations": 10,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBacktestEndpoint(t *testing.T) {
	srv, historyService := newTestServer(t)

	require.NoError(t, historyService.Repo().SavePrices("AAPL", []domain.PricePoint{
		{Date: "2024-01-02", Close: 100},
		{Date: "2024-01-15", Close: 104},
		{Date: "2024-02-01", Close: 110},
	}))

	rec := doJSON(t, srv, http.MethodPost, "/api/backtest", map[string]interface{}{
		"tickers":       []string{"AAPL"},
		"weights":       []float64{1.0},
		"start_date":    "2024-01-02",
		"total_capital": 100000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var outcome backtest.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.InDelta(t, 10000.0, outcome.Profit, 1e-6)
	assert.InDelta(t, 10.0, outcome.ProfitPercent, 1e-6)
}

func TestBacktestEndpoint_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/backtest", map[string]interface{}{
		"tickers": []string{"AAPL"}, "weights": []float64{0.5, 0.5}, "start_date": "2024-01-02",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/backtest", map[string]interface{}{
		"tickers": []string{"AAPL"}, "weights": []float64{1.0},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Material weight without any stored history fails the run.
	rec = doJSON(t, srv, http.MethodPost, "/api/backtest", map[string]interface{}{
		"tickers": []string{"GHOST"}, "weights": []float64{1.0}, "start_date": "2024-01-02",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSystemStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/system/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Contains(t, status, "uptime_seconds")
	assert.Contains(t, status, "cpu_percent")
	assert.Contains(t, status, "ram_percent")
}
