package simulation

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/frontier/internal/domain"
	"github.com/aristath/frontier/internal/modules/statistics"
)

// fourAssetStats builds four instruments with distinct return/risk profiles.
func fourAssetStats(t *testing.T) ([]domain.AssetStatistics, *statistics.Matrices) {
	t.Helper()

	series := map[string][]float64{
		"A": {100, 102, 101, 105, 107, 106, 110, 112},
		"B": {50, 49, 51, 52, 50, 53, 54, 52},
		"C": {200, 202, 199, 205, 203, 208, 206, 211},
		"D": {75, 77, 76, 74, 78, 79, 77, 81},
	}
	order := []string{"A", "B", "C", "D"}

	stats := make([]domain.AssetStatistics, 0, len(order))
	for _, ticker := range order {
		prices := series[ticker]
		dates := make([]string, len(prices))
		for i := range dates {
			dates[i] = "2024-01-02"
		}
		s, err := statistics.NewAssetStatistics(ticker, prices, dates)
		require.NoError(t, err)
		stats = append(stats, s)
	}

	matrices, err := statistics.BuildMatrices(stats)
	require.NoError(t, err)
	return stats, matrices
}

func TestRun_RespectsWeightConstraints(t *testing.T) {
	stats, matrices := fourAssetStats(t)
	opt := NewSeededOptimizer(42, zerolog.Nop())

	result, err := opt.Run(stats, matrices, Config{Iterations: 500, RiskFreeRate: 0.02})
	require.NoError(t, err)
	require.False(t, result.Degenerate)
	require.NotEmpty(t, result.Candidates)
	assert.Equal(t, result.Accepted, len(result.Candidates))

	for _, c := range result.Candidates {
		sum := 0.0
		for _, w := range c.Weights {
			m := math.Abs(w)
			assert.GreaterOrEqual(t, m, MinWeight, "no near-zero positions")
			assert.LessOrEqual(t, m, MaxWeight, "no position above half the capital")
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "weights are fully invested")
		assert.Greater(t, c.AnnualRisk, 0.0)
	}
}

func TestRun_ExtremalCandidates(t *testing.T) {
	stats, matrices := fourAssetStats(t)
	opt := NewSeededOptimizer(7, zerolog.Nop())

	result, err := opt.Run(stats, matrices, Config{Iterations: 300, RiskFreeRate: 0.02})
	require.NoError(t, err)
	require.NotEmpty(t, result.Candidates)

	for _, c := range result.Candidates {
		assert.GreaterOrEqual(t, c.AnnualRisk, result.MinRisk.AnnualRisk)
		assert.LessOrEqual(t, c.Sharpe, result.MaxSharpe.Sharpe)
		assert.LessOrEqual(t, c.AnnualReturn, result.MaxReturn.AnnualReturn)
	}
}

func TestRun_SeededRunsAreReproducible(t *testing.T) {
	stats, matrices := fourAssetStats(t)

	first, err := NewSeededOptimizer(123, zerolog.Nop()).Run(stats, matrices, Config{Iterations: 200, RiskFreeRate: 0.02})
	require.NoError(t, err)
	second, err := NewSeededOptimizer(123, zerolog.Nop()).Run(stats, matrices, Config{Iterations: 200, RiskFreeRate: 0.02})
	require.NoError(t, err)

	require.Equal(t, first.Accepted, second.Accepted)
	require.Equal(t, len(first.Candidates), len(second.Candidates))
	for i := range first.Candidates {
		assert.Equal(t, first.Candidates[i].Weights, second.Candidates[i].Weights)
	}
	assert.Equal(t, first.MaxSharpe.Weights, second.MaxSharpe.Weights)
}

func TestRun_SingleInstrumentIsDegenerate(t *testing.T) {
	stats, _ := fourAssetStats(t)

	// One instrument must carry weight 1.0, which violates the 0.5 cap, so
	// the sampler can never accept and falls back to equal weights.
	single, err := statistics.BuildMatrices(stats[:1])
	require.NoError(t, err)

	opt := NewSeededOptimizer(1, zerolog.Nop())
	result, err := opt.Run(stats[:1], single, Config{Iterations: 50, RiskFreeRate: 0.02})
	require.NoError(t, err)

	assert.True(t, result.Degenerate)
	assert.Equal(t, 0, result.Accepted)
	require.Len(t, result.Candidates, 1)

	fallback := result.Candidates[0]
	assert.Equal(t, []float64{1.0}, fallback.Weights)
	assert.Equal(t, 0.0, fallback.AnnualReturn)
	assert.Equal(t, 0.0, fallback.AnnualRisk)
	assert.Equal(t, 0.0, fallback.Sharpe)

	// All three extremal slots point at the fallback.
	assert.Equal(t, fallback.ID, result.MinRisk.ID)
	assert.Equal(t, fallback.ID, result.MaxSharpe.ID)
	assert.Equal(t, fallback.ID, result.MaxReturn.ID)
}

func TestRun_InputValidation(t *testing.T) {
	stats, matrices := fourAssetStats(t)
	opt := NewSeededOptimizer(1, zerolog.Nop())

	_, err := opt.Run(nil, matrices, Config{Iterations: 10})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	_, err = opt.Run(stats[:2], matrices, Config{Iterations: 10})
	assert.Error(t, err, "matrix dimension mismatch must be rejected")

	_, err = opt.Run(stats, matrices, Config{Iterations: 0})
	assert.Error(t, err)
}
