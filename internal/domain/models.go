// Package domain provides core domain models and types.
package domain

// TradingDaysPerYear is the annualization factor used throughout the engine.
const TradingDaysPerYear = 252

// PricePoint is a single dated observation of an instrument's closing price.
type PricePoint struct {
	Date  string  `json:"date"` // ISO YYYY-MM-DD
	Close float64 `json:"close"`
}

// AssetStatistics holds the derived return statistics for one instrument.
// Instances are immutable after construction: an overridden expected return
// produces a new value via WithMeanReturn, never a mutation of shared state.
type AssetStatistics struct {
	Ticker     string    `json:"ticker"`
	Prices     []float64 `json:"prices"`
	Dates      []string  `json:"dates"`
	LogReturns []float64 `json:"log_returns"`
	MeanReturn float64   `json:"mean_return"`
	StdDev     float64   `json:"std_dev"`
	LastPrice  float64   `json:"last_price"`
}

// WithMeanReturn returns a copy of the statistics with the mean daily return
// replaced (used when the caller supplies its own expected returns). The
// original value is left untouched.
func (a AssetStatistics) WithMeanReturn(mean float64) AssetStatistics {
	a.MeanReturn = mean
	return a
}
