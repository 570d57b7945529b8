package history

import (
	"fmt"
	"time"

	"github.com/aristath/frontier/internal/domain"
	"github.com/aristath/frontier/internal/modules/statistics"
	"github.com/aristath/frontier/internal/utils"
	"github.com/aristath/frontier/pkg/formulas"
	"github.com/rs/zerolog"
)

// Indicators bundles the technical indicators served per ticker.
// Pointers are nil when there is not enough history to compute a value.
type Indicators struct {
	Ticker    string   `json:"ticker"`
	LastClose *float64 `json:"last_close,omitempty"`
	RSI14     *float64 `json:"rsi_14,omitempty"`
	SMA20     *float64 `json:"sma_20,omitempty"`
	SMA50     *float64 `json:"sma_50,omitempty"`
	AnnualVol *float64 `json:"annual_volatility,omitempty"`
}

// Service assembles price history into the shapes the rest of the engine
// consumes: per-asset statistics, indicator snapshots and sync runs.
type Service struct {
	repo      *Repository
	generator *Generator
	log       zerolog.Logger
}

// NewService creates a new history service.
func NewService(repo *Repository, generator *Generator, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		log:       log.With().Str("service", "history").Logger(),
	}
}

// Repo exposes the underlying repository for read-only consumers.
func (s *Service) Repo() *Repository {
	return s.repo
}

// EnsureSeeded generates and stores a synthetic series for any of the
// given tickers that have no history yet. Tickers with existing prices
// are left untouched.
func (s *Service) EnsureSeeded(tickers []string, days int) error {
	end := time.Now().UTC()
	for _, ticker := range tickers {
		count, err := s.repo.CountPrices(ticker)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		points := s.generator.Series(ticker, end, days)
		if err := s.repo.SavePrices(ticker, points); err != nil {
			return fmt.Errorf("failed to seed %s: %w", ticker, err)
		}
		s.log.Info().
			Str("ticker", ticker).
			Int("points", len(points)).
			Msg("Seeded synthetic price history")
	}
	return nil
}

// RefreshAll appends the next close to every stored ticker whose series
// is behind today. Returns the number of tickers that received new data.
func (s *Service) RefreshAll() (int, error) {
	timer := utils.NewTimer("history_refresh", s.log)
	defer timer.Stop()

	tickers, err := s.repo.Tickers()
	if err != nil {
		return 0, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	updated := 0
	for _, ticker := range tickers {
		n, err := s.refreshTicker(ticker, today)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to refresh ticker")
			continue
		}
		if n > 0 {
			updated++
		}
	}
	return updated, nil
}

// refreshTicker walks the synthetic series forward one day at a time
// until it reaches the target date.
func (s *Service) refreshTicker(ticker string, until string) (int, error) {
	latest, err := s.repo.LatestDate(ticker)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}

	points, err := s.repo.GetDailyPrices(ticker, 1)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, nil
	}

	lastDate, err := time.Parse("2006-01-02", points[0].Date)
	if err != nil {
		return 0, fmt.Errorf("invalid stored date %q: %w", points[0].Date, err)
	}
	lastClose := points[0].Close

	var fresh []domain.PricePoint
	for lastDate.Format("2006-01-02") < until {
		next := s.generator.Next(ticker, lastDate, lastClose)
		lastDate = lastDate.AddDate(0, 0, 1)
		if next == nil {
			continue
		}
		fresh = append(fresh, *next)
		lastClose = next.Close
	}

	if len(fresh) == 0 {
		return 0, nil
	}
	if err := s.repo.SavePrices(ticker, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// AssetStatistics builds the statistics bundle for one ticker from its
// most recent lookbackDays closes.
func (s *Service) AssetStatistics(ticker string, lookbackDays int) (domain.AssetStatistics, error) {
	points, err := s.repo.GetDailyPrices(ticker, lookbackDays)
	if err != nil {
		return domain.AssetStatistics{}, err
	}
	if len(points) < 2 {
		return domain.AssetStatistics{}, fmt.Errorf("%w: %s has %d stored prices", domain.ErrInsufficientData, ticker, len(points))
	}

	prices := make([]float64, len(points))
	dates := make([]string, len(points))
	for i, p := range points {
		prices[i] = p.Close
		dates[i] = p.Date
	}

	return statistics.NewAssetStatistics(ticker, prices, dates)
}

// AssetStatisticsBatch builds statistics for every requested ticker.
// Fails fast on the first ticker with insufficient history.
func (s *Service) AssetStatisticsBatch(tickers []string, lookbackDays int) ([]domain.AssetStatistics, error) {
	stats := make([]domain.AssetStatistics, 0, len(tickers))
	for _, ticker := range tickers {
		st, err := s.AssetStatistics(ticker, lookbackDays)
		if err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// IndicatorSnapshot computes the indicator set for a ticker from its
// most recent lookbackDays closes.
func (s *Service) IndicatorSnapshot(ticker string, lookbackDays int) (Indicators, error) {
	points, err := s.repo.GetDailyPrices(ticker, lookbackDays)
	if err != nil {
		return Indicators{}, err
	}
	if len(points) == 0 {
		return Indicators{}, fmt.Errorf("%w: no stored prices for %s", domain.ErrInsufficientData, ticker)
	}

	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}

	last := closes[len(closes)-1]
	out := Indicators{
		Ticker:    ticker,
		LastClose: &last,
		RSI14:     formulas.RSI(closes, 14),
		SMA20:     formulas.SMA(closes, 20),
		SMA50:     formulas.SMA(closes, 50),
	}

	returns := formulas.PercentReturns(closes)
	if len(returns) >= 2 {
		vol := formulas.AnnualizedVolatility(returns)
		out.AnnualVol = &vol
	}
	return out, nil
}
