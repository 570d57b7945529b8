package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/frontier/internal/domain"
)

func TestLogReturns(t *testing.T) {
	prices := []float64{100, 102, 101, 105}

	returns, err := LogReturns(prices)
	require.NoError(t, err)
	require.Len(t, returns, 3)

	assert.InDelta(t, math.Log(102.0/100.0), returns[0], 1e-12)
	assert.InDelta(t, math.Log(101.0/102.0), returns[1], 1e-12)
	assert.InDelta(t, math.Log(105.0/101.0), returns[2], 1e-12)

	// Log returns are additive: the sum reproduces the total growth.
	sum := returns[0] + returns[1] + returns[2]
	assert.InDelta(t, math.Log(105.0/100.0), sum, 1e-12)
}

func TestLogReturns_InsufficientPrices(t *testing.T) {
	_, err := LogReturns([]float64{100})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	_, err = LogReturns(nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
	assert.Equal(t, 0.0, Mean(nil))
}

func TestSampleStdDev(t *testing.T) {
	// Sample variance of {2, 4, 4, 4, 5, 5, 7, 9} is 32/7.
	sd, err := SampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(32.0/7.0), sd, 1e-12)

	_, err = SampleStdDev([]float64{1})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestCovariance(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{2, 4, 6, 8}

	// b = 2a, so cov(a, b) = 2 * var(a). Sample var of {1,2,3,4} is 5/3.
	assert.InDelta(t, 2.0*5.0/3.0, Covariance(a, b), 1e-12)

	// Mismatched or too-short inputs yield 0.
	assert.Equal(t, 0.0, Covariance(a, []float64{1, 2}))
	assert.Equal(t, 0.0, Covariance([]float64{1}, []float64{2}))
}

func TestNewAssetStatistics(t *testing.T) {
	prices := []float64{50, 49, 51, 52}
	dates := []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}

	stats, err := NewAssetStatistics("TEST", prices, dates)
	require.NoError(t, err)

	assert.Equal(t, "TEST", stats.Ticker)
	assert.Len(t, stats.LogReturns, 3)
	assert.Equal(t, 52.0, stats.LastPrice)

	wantMean := (math.Log(49.0/50.0) + math.Log(51.0/49.0) + math.Log(52.0/51.0)) / 3
	assert.InDelta(t, wantMean, stats.MeanReturn, 1e-12)
	assert.Greater(t, stats.StdDev, 0.0)
}

func TestNewAssetStatistics_MismatchedDates(t *testing.T) {
	_, err := NewAssetStatistics("TEST", []float64{100, 101}, []string{"2024-01-02"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestNewAssetStatistics_TwoPricesHasZeroStdDev(t *testing.T) {
	stats, err := NewAssetStatistics("TEST", []float64{100, 110}, []string{"2024-01-02", "2024-01-03"})
	require.NoError(t, err)

	// One return: mean is defined, dispersion is not.
	assert.Len(t, stats.LogReturns, 1)
	assert.InDelta(t, math.Log(1.1), stats.MeanReturn, 1e-12)
	assert.Equal(t, 0.0, stats.StdDev)
}

func TestWithMeanReturnCopies(t *testing.T) {
	stats, err := NewAssetStatistics("TEST", []float64{100, 102, 101}, []string{"2024-01-02", "2024-01-03", "2024-01-04"})
	require.NoError(t, err)

	overridden := stats.WithMeanReturn(0.42)
	assert.Equal(t, 0.42, overridden.MeanReturn)
	assert.NotEqual(t, 0.42, stats.MeanReturn, "original must stay untouched")
}
