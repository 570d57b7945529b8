package statistics

import (
	"fmt"

	"github.com/aristath/frontier/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Matrices holds the covariance and correlation matrices for a set of
// instruments, indexed by the instrument order of the input slice.
type Matrices struct {
	Tickers     []string    `json:"tickers"`
	Covariance  [][]float64 `json:"covariance"`
	Correlation [][]float64 `json:"correlation"`
}

// BuildMatrices computes the pairwise covariance and correlation matrices
// over the given asset statistics. Return series of different lengths are
// right-aligned and truncated to the shortest series so every pair is
// computed on a comparable window of the most recent observations.
//
// The matrices are symmetric by construction and the correlation diagonal is
// exactly 1.0. Correlation is deliberately not clamped to [-1, 1]: truncation
// and floating-point error can push it marginally outside and downstream
// consumers treat the raw value as authoritative.
//
// A truncated series with zero standard deviation makes correlation
// undefined and is reported as an error rather than letting NaN propagate.
func BuildMatrices(stats []domain.AssetStatistics) (*Matrices, error) {
	n := len(stats)
	if n == 0 {
		return nil, fmt.Errorf("%w: no asset statistics provided", domain.ErrInsufficientData)
	}

	minLen := len(stats[0].LogReturns)
	for _, s := range stats[1:] {
		if len(s.LogReturns) < minLen {
			minLen = len(s.LogReturns)
		}
	}
	if minLen < 2 {
		return nil, fmt.Errorf("%w: shortest return series has %d observations, need at least 2", domain.ErrInsufficientData, minLen)
	}

	// Most recent minLen observations of every series.
	windows := make([][]float64, n)
	stdDevs := make([]float64, n)
	tickers := make([]string, n)
	for i, s := range stats {
		windows[i] = s.LogReturns[len(s.LogReturns)-minLen:]
		stdDevs[i] = stat.StdDev(windows[i], nil)
		tickers[i] = s.Ticker
		if stdDevs[i] == 0 {
			return nil, fmt.Errorf("%w: %s over the aligned window", domain.ErrZeroVariance, s.Ticker)
		}
	}

	cov := make([][]float64, n)
	corr := make([][]float64, n)
	for i := range cov {
		cov[i] = make([]float64, n)
		corr[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := Covariance(windows[i], windows[j])
			cov[i][j] = c
			cov[j][i] = c
			if i == j {
				corr[i][j] = 1.0
				continue
			}
			r := c / (stdDevs[i] * stdDevs[j])
			corr[i][j] = r
			corr[j][i] = r
		}
	}

	return &Matrices{
		Tickers:     tickers,
		Covariance:  cov,
		Correlation: corr,
	}, nil
}
