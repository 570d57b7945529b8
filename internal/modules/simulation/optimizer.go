package simulation

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/frontier/internal/domain"
	"github.com/aristath/frontier/internal/modules/statistics"
	"github.com/aristath/frontier/internal/utils"
)

// Sampling constraints. Every accepted portfolio holds a meaningful stake in
// every instrument: no position above half the capital (long or short) and
// no position inside the near-zero exclusion zone.
const (
	MaxWeight       = 0.5
	MinWeight       = 0.1
	MaxDrawAttempts = 200
)

// Config holds the parameters of one simulation run.
type Config struct {
	Iterations   int     `json:"iterations"`
	RiskFreeRate float64 `json:"risk_free_rate"` // annual, e.g. 0.02
}

// Optimizer runs constrained Monte Carlo portfolio simulations. Iterations
// are processed in a fixed sequential order, so extremal tie-breaking
// (first seen wins, strict comparisons) is deterministic for a given seed.
type Optimizer struct {
	rng *rand.Rand
	log zerolog.Logger
}

// NewOptimizer creates an optimizer with a time-based random seed.
func NewOptimizer(log zerolog.Logger) *Optimizer {
	return NewSeededOptimizer(time.Now().UnixNano(), log)
}

// NewSeededOptimizer creates an optimizer with a fixed seed, giving fully
// reproducible runs.
func NewSeededOptimizer(seed int64, log zerolog.Logger) *Optimizer {
	return &Optimizer{
		rng: rand.New(rand.NewSource(seed)),
		log: log.With().Str("component", "simulation").Logger(),
	}
}

// Run generates cfg.Iterations random constrained portfolios over the given
// instruments and returns the accepted population together with the
// minimum-risk, maximum-Sharpe and maximum-return candidates.
//
// Means in stats may already be overridden with caller-supplied expected
// returns; the optimizer treats them as daily returns and annualizes with
// the 252 trading-day convention.
func (o *Optimizer) Run(stats []domain.AssetStatistics, matrices *statistics.Matrices, cfg Config) (*Result, error) {
	n := len(stats)
	if n == 0 {
		return nil, fmt.Errorf("%w: no instruments to simulate", domain.ErrInsufficientData)
	}
	if len(matrices.Covariance) != n {
		return nil, fmt.Errorf("covariance matrix size %d does not match instrument count %d", len(matrices.Covariance), n)
	}
	if cfg.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}

	tickers := make([]string, n)
	mu := make([]float64, n)
	for i, s := range stats {
		tickers[i] = s.Ticker
		mu[i] = s.MeanReturn
	}

	sigma := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sigma.Set(i, j, matrices.Covariance[i][j])
		}
	}

	o.log.Info().
		Int("instruments", n).
		Int("iterations", cfg.Iterations).
		Float64("risk_free_rate", cfg.RiskFreeRate).
		Msg("Starting Monte Carlo simulation")
	timer := utils.NewTimer("monte_carlo_simulation", o.log)
	defer timer.Stop()

	result := &Result{
		Candidates: make([]PortfolioCandidate, 0, cfg.Iterations),
		Matrices:   matrices,
		Iterations: cfg.Iterations,
	}

	minRiskIdx, maxSharpeIdx, maxReturnIdx := -1, -1, -1

	for it := 0; it < cfg.Iterations; it++ {
		weights, ok := o.drawWeights(n)
		if !ok {
			// Draw budget exhausted; the iteration contributes nothing.
			continue
		}

		dailyReturn := 0.0
		for i, w := range weights {
			dailyReturn += w * mu[i]
		}
		annualReturn := dailyReturn * domain.TradingDaysPerYear

		wVec := mat.NewVecDense(n, weights)
		variance := mat.Inner(wVec, sigma, wVec)
		annualRisk := math.Sqrt(variance * domain.TradingDaysPerYear)
		sharpe := (annualReturn - cfg.RiskFreeRate) / annualRisk

		result.Candidates = append(result.Candidates, PortfolioCandidate{
			ID:           uuid.New().String(),
			Tickers:      tickers,
			Weights:      weights,
			AnnualReturn: annualReturn,
			AnnualRisk:   annualRisk,
			Sharpe:       sharpe,
		})
		idx := len(result.Candidates) - 1

		// Strict comparisons: the first candidate to reach an extreme wins.
		if minRiskIdx < 0 || annualRisk < result.Candidates[minRiskIdx].AnnualRisk {
			minRiskIdx = idx
		}
		if maxSharpeIdx < 0 || sharpe > result.Candidates[maxSharpeIdx].Sharpe {
			maxSharpeIdx = idx
		}
		if maxReturnIdx < 0 || annualReturn > result.Candidates[maxReturnIdx].AnnualReturn {
			maxReturnIdx = idx
		}
	}

	result.Accepted = len(result.Candidates)

	if result.Accepted == 0 {
		// The constraint set can be infeasible (a single instrument must
		// carry weight 1.0 which violates the 0.5 cap) or simply too tight
		// for the draw budget. A flagged equal-weight fallback is still more
		// useful to the caller than a hard failure.
		o.log.Warn().
			Int("instruments", n).
			Int("iterations", cfg.Iterations).
			Msg("No feasible portfolio found, returning equal-weight fallback")

		fallback := o.equalWeightFallback(tickers)
		result.Degenerate = true
		result.Candidates = []PortfolioCandidate{fallback}
		result.Accepted = 0
		result.MinRisk = fallback
		result.MaxSharpe = fallback
		result.MaxReturn = fallback
		return result, nil
	}

	result.MinRisk = result.Candidates[minRiskIdx]
	result.MaxSharpe = result.Candidates[maxSharpeIdx]
	result.MaxReturn = result.Candidates[maxReturnIdx]

	o.log.Info().
		Int("accepted", result.Accepted).
		Float64("min_risk", result.MinRisk.AnnualRisk).
		Float64("max_sharpe", result.MaxSharpe.Sharpe).
		Float64("max_return", result.MaxReturn.AnnualReturn).
		Msg("Simulation complete")

	return result, nil
}

// drawWeights rejection-samples one weight vector: N uniforms in [-0.5, 0.5]
// normalized to sum to 1, accepted only when every weight magnitude lies in
// [MinWeight, MaxWeight]. Returns false when the attempt budget runs out.
func (o *Optimizer) drawWeights(n int) ([]float64, bool) {
	for attempt := 0; attempt < MaxDrawAttempts; attempt++ {
		weights := make([]float64, n)
		sum := 0.0
		for i := range weights {
			weights[i] = o.rng.Float64() - 0.5
			sum += weights[i]
		}
		if sum == 0 {
			continue
		}

		valid := true
		for i := range weights {
			weights[i] /= sum
			if m := math.Abs(weights[i]); m > MaxWeight || m < MinWeight {
				valid = false
				break
			}
		}
		if valid {
			return weights, true
		}
	}
	return nil, false
}

// equalWeightFallback builds the degenerate-state candidate: every
// instrument at 1/N with zeroed metrics.
func (o *Optimizer) equalWeightFallback(tickers []string) PortfolioCandidate {
	n := len(tickers)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return PortfolioCandidate{
		ID:      uuid.New().String(),
		Tickers: tickers,
		Weights: weights,
	}
}
