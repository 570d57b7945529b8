// Package simulation approximates the efficient frontier with a constrained
// Monte Carlo search over random portfolio weight vectors.
package simulation

import "github.com/aristath/frontier/internal/modules/statistics"

// PortfolioCandidate is one accepted random portfolio. Weights are indexed
// by the instrument order of the simulation input and always sum to 1.
// Immutable once produced.
type PortfolioCandidate struct {
	ID           string    `json:"id"`
	Tickers      []string  `json:"tickers"`
	Weights      []float64 `json:"weights"`
	AnnualReturn float64   `json:"annual_return"`
	AnnualRisk   float64   `json:"annual_risk"`
	Sharpe       float64   `json:"sharpe"`
}

/// Result is the full outcome of one simulation run: the accepted population,
// the three extremal candidates and the matrices the run was based on.
//
// Degenerate is set when the sampler found no feasible portfolio (the
// constraints are infeasible for the instrument count, or every draw budget
// was exhausted). In that case all three extremal references point at a
// single equal-weight fallback candidate with zero return, risk and Sharpe.
type Result struct {
	Candidates []PortfolioCandidate `json:"candidates"`
	MinRisk    PortfolioCandidate   `json:"min_risk"`
	MaxSharpe  PortfolioCandidate   `json:"max_sharpe"`
	MaxReturn  PortfolioCandidate   `json:"max_return"`
	Matrices   *statistics.Matrices `json:"matrices"`
	Degenerate bool                 `json:"degenerate"`
	Iterations int                  `json:"iterations"`
	Accepted   int                  `json:"accepted"`
}
