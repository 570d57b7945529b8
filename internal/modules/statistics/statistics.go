// Package statistics computes return and risk statistics from price series.
// All functions are pure; the package holds no state.
package statistics

import (
	"fmt"
	"math"

	"github.com/aristath/frontier/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// LogReturns computes logarithmic returns from a price series:
// returns[i] = ln(prices[i+1] / prices[i]).
// A series needs at least 2 prices to produce a return.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 prices, got %d", domain.ErrInsufficientData, len(prices))
	}

	returns := make([]float64, len(prices)-1)
	for i := 0; i < len(prices)-1; i++ {
		returns[i] = math.Log(prices[i+1] / prices[i])
	}
	return returns, nil
}

// Mean returns the arithmetic mean of a series, or 0 for an empty series.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// SampleStdDev returns the sample standard deviation (n-1 denominator).
// It is undefined for fewer than 2 observations.
func SampleStdDev(xs []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, fmt.Errorf("%w: standard deviation needs at least 2 observations, got %d", domain.ErrInsufficientData, len(xs))
	}
	return stat.StdDev(xs, nil), nil
}

// Covariance returns the sample covariance (n-1 denominator) of two
// equal-length return series. Mismatched or too-short inputs yield 0 rather
// than an error so that matrix-build loops stay total.
func Covariance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}
	return stat.Covariance(a, b, nil)
}

// NewAssetStatistics derives per-instrument return statistics from a price
// series. Dates must be ISO YYYY-MM-DD, ascending, one per price.
// The returned value is never mutated afterwards.
func NewAssetStatistics(ticker string, prices []float64, dates []string) (domain.AssetStatistics, error) {
	if len(prices) != len(dates) {
		return domain.AssetStatistics{}, fmt.Errorf("%w: %s has %d prices but %d dates", domain.ErrInsufficientData, ticker, len(prices), len(dates))
	}

	returns, err := LogReturns(prices)
	if err != nil {
		return domain.AssetStatistics{}, fmt.Errorf("%s: %w", ticker, err)
	}

	// With exactly 2 prices there is a single return and the sample standard
	// deviation is undefined; it is recorded as 0 and callers that need
	// dispersion (matrix construction) reject it explicitly.
	stdDev := 0.0
	if len(returns) >= 2 {
		stdDev = stat.StdDev(returns, nil)
	}

	return domain.AssetStatistics{
		Ticker:     ticker,
		Prices:     prices,
		Dates:      dates,
		LogReturns: returns,
		MeanReturn: stat.Mean(returns, nil),
		StdDev:     stdDev,
		LastPrice:  prices[len(prices)-1],
	}, nil
}
