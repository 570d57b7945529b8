// Package backtest replays a chosen portfolio allocation against historical
// prices over a fixed 30-day forward window.
package backtest

// WindowDays is the fixed forward horizon in calendar days.
const WindowDays = 30

// NegligibleWeight is the weight magnitude below which an instrument with
// missing history is silently skipped instead of failing the backtest.
const NegligibleWeight = 0.001

// Expectation pairs a ticker with the user's expected monthly return in
// percent, for comparison against the realized outcome.
type Expectation struct {
	Ticker  string  `json:"ticker"`
	Percent float64 `json:"percent"`
}

// PositionOutcome is the realized result for one instrument.
type PositionOutcome struct {
	Ticker           string  `json:"ticker"`
	StartPrice       float64 `json:"start_price"`
	EndPrice         float64 `json:"end_price"`
	RealizedPercent  float64 `json:"realized_percent"`
	ExpectedPercent  float64 `json:"expected_percent"`
	Weight           float64 `json:"weight"`
	AllocatedCapital float64 `json:"allocated_capital"`
	Contribution     float64 `json:"contribution"`
}

// Outcome is the aggregate result of one backtest run. It is a pure function
// of its inputs and is recomputed, never cached.
type Outcome struct {
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	TotalCapital  float64           `json:"total_capital"`
	StartValue    float64           `json:"start_value"`
	EndValue      float64           `json:"end_value"`
	Profit        float64           `json:"profit"`
	ProfitPercent float64           `json:"profit_percent"` // relative to TotalCapital
	Positions     []PositionOutcome `json:"positions"`
}
