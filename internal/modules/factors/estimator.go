package factors

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// SuggestionLimit caps the number of instruments returned by Suggest.
const SuggestionLimit = 10

// Suggestion is a ranked instrument candidate.
type Suggestion struct {
	Ticker         string  `json:"ticker"`
	ExpectedReturn float64 `json:"expected_return"` // annual, %
	Efficiency     float64 `json:"efficiency"`      // expected return per unit of volatility
}

// Estimator produces expected-return estimates from the static factor table.
// The table is read-only after process start; the estimator is safe for
// concurrent use.
type Estimator struct {
	entries []tableEntry
	byTick  map[string]Exposure
	log     zerolog.Logger
}

// NewEstimator creates an estimator backed by the built-in exposure table.
func NewEstimator(log zerolog.Logger) *Estimator {
	byTick := make(map[string]Exposure, len(exposureTable))
	for _, e := range exposureTable {
		byTick[e.Ticker] = e.Exposure
	}
	return &Estimator{
		entries: exposureTable,
		byTick:  byTick,
		log:     log.With().Str("component", "factors").Logger(),
	}
}

// Lookup returns the exposure for a ticker and whether it was found in the
// table. Unknown tickers fall back to DefaultExposure.
func (e *Estimator) Lookup(ticker string) (Exposure, bool) {
	exp, ok := e.byTick[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return DefaultExposure, false
	}
	return exp, true
}

// EstimateExpectedReturn computes the factor-model annual expected return
// for a ticker, in percent, rounded to 2 decimals. Unknown tickers receive
// the default exposure profile; that fallback is logged but never fails.
func (e *Estimator) EstimateExpectedReturn(ticker string) float64 {
	exp, known := e.Lookup(ticker)
	if !known {
		e.log.Warn().Str("ticker", ticker).Msg("Unknown ticker, using default factor exposures")
	}
	return expectedReturn(exp)
}

// Suggest filters the table by market tag (empty accepts every market),
// ranks instruments by efficiency (expected return per unit of average
// volatility) and returns the top candidates. The sort is stable, so equal
// scores keep the table's insertion order.
func (e *Estimator) Suggest(marketFilter string) []Suggestion {
	marketFilter = strings.ToUpper(strings.TrimSpace(marketFilter))

	suggestions := make([]Suggestion, 0, len(e.entries))
	for _, entry := range e.entries {
		if marketFilter != "" && entry.Exposure.Market != marketFilter {
			continue
		}
		er := expectedReturn(entry.Exposure)
		suggestions = append(suggestions, Suggestion{
			Ticker:         entry.Ticker,
			ExpectedReturn: er,
			Efficiency:     er / entry.Exposure.AvgVol,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Efficiency > suggestions[j].Efficiency
	})

	if len(suggestions) > SuggestionLimit {
		suggestions = suggestions[:SuggestionLimit]
	}
	return suggestions
}

func expectedReturn(exp Exposure) float64 {
	er := RiskFreeRate +
		exp.Mkt*PremiumMkt +
		exp.SMB*PremiumSMB +
		exp.HML*PremiumHML +
		exp.RMW*PremiumRMW +
		exp.CMA*PremiumCMA
	return math.Round(er*100) / 100
}
