package backtest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/frontier/internal/domain"
	"github.com/aristath/frontier/internal/modules/simulation"
)

// Service evaluates portfolio candidates against historical prices. It holds
// no mutable state and is safe for concurrent use.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new backtest service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("component", "backtest").Logger(),
	}
}

// Run replays the candidate's allocation from startDate over a 30-calendar-day
// window. Each instrument is resolved against its own date sequence: the
// first date >= startDate opens the position, the first date >= endDate
// closes it. A window not covered by an instrument carrying material weight
// fails the whole backtest; a partially wrong result is worse than none.
func (s *Service) Run(
	stats []domain.AssetStatistics,
	candidate simulation.PortfolioCandidate,
	startDate string,
	totalCapital float64,
	expectations []Expectation,
) (*Outcome, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	endDate := start.AddDate(0, 0, WindowDays).Format("2006-01-02")

	weights := make(map[string]float64, len(candidate.Tickers))
	for i, t := range candidate.Tickers {
		if i < len(candidate.Weights) {
			weights[normalizeTicker(t)] = candidate.Weights[i]
		}
	}

	expected := make(map[string]float64, len(expectations))
	for _, e := range expectations {
		expected[normalizeTicker(e.Ticker)] = e.Percent
	}

	outcome := &Outcome{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalCapital: totalCapital,
		Positions:    make([]PositionOutcome, 0, len(stats)),
	}

	covered := make(map[string]bool, len(weights))
	for _, asset := range stats {
		key := normalizeTicker(asset.Ticker)
		weight, ok := weights[key]
		if !ok {
			continue
		}
		covered[key] = true

		startIdx, startOK := firstDateAtOrAfter(asset.Dates, startDate)
		endIdx, endOK := firstDateAtOrAfter(asset.Dates, endDate)

		if !startOK || !endOK || startIdx >= len(asset.Prices) || endIdx >= len(asset.Prices) {
			if weight > NegligibleWeight || weight < -NegligibleWeight {
				return nil, fmt.Errorf("%w: %s has no prices covering %s..%s", domain.ErrInsufficientHistory, asset.Ticker, startDate, endDate)
			}
			s.log.Debug().
				Str("ticker", asset.Ticker).
				Float64("weight", weight).
				Msg("Skipping negligible position with missing history")
			continue
		}

		startPrice := asset.Prices[startIdx]
		endPrice := asset.Prices[endIdx]
		priceReturn := (endPrice - startPrice) / startPrice
		allocated := totalCapital * weight
		contribution := allocated * priceReturn

		outcome.StartValue += allocated
		outcome.EndValue += allocated + contribution
		outcome.Positions = append(outcome.Positions, PositionOutcome{
			Ticker:           asset.Ticker,
			StartPrice:       startPrice,
			EndPrice:         endPrice,
			RealizedPercent:  priceReturn * 100,
			ExpectedPercent:  expected[key],
			Weight:           weight,
			AllocatedCapital: allocated,
			Contribution:     contribution,
		})
	}

	// A materially-weighted instrument missing from stats entirely must fail
	// the run the same way an uncovered window does.
	for key, weight := range weights {
		if covered[key] || (weight <= NegligibleWeight && weight >= -NegligibleWeight) {
			continue
		}
		return nil, fmt.Errorf("%w: %s has no price history", domain.ErrInsufficientHistory, key)
	}

	outcome.Profit = outcome.EndValue - outcome.StartValue
	// Relative to the full capital, not the allocated sum: weights may not
	// sum to exactly 1 after floating error.
	if totalCapital != 0 {
		outcome.ProfitPercent = outcome.Profit / totalCapital * 100
	}

	s.log.Info().
		Str("start", startDate).
		Str("end", endDate).
		Int("positions", len(outcome.Positions)).
		Float64("profit", outcome.Profit).
		Msg("Backtest complete")

	return outcome, nil
}

// firstDateAtOrAfter finds the index of the first date >= target in an
// ascending ISO date slice. ISO dates order lexicographically.
func firstDateAtOrAfter(dates []string, target string) (int, bool) {
	idx := sort.SearchStrings(dates, target)
	if idx >= len(dates) {
		return 0, false
	}
	return idx, true
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
