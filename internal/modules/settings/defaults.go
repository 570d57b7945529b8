package settings

// Setting keys understood by the engine. Anything else stored in the
// settings table is preserved but ignored.
const (
	KeyOptimizerIterations    = "optimizer_iterations"
	KeyRiskFreeRate           = "risk_free_rate"
	KeyHistoryLookbackDays    = "history_lookback_days"
	KeySyntheticSeedDays      = "synthetic_seed_days"
	KeyBacktestDefaultCapital = "backtest_default_capital"
)

// Defaults are the compiled-in values used when a key has never been
// written to the settings table.
var Defaults = map[string]string{
	KeyOptimizerIterations:    "3000",
	KeyRiskFreeRate:           "0.02",
	KeyHistoryLookbackDays:    "252",
	KeySyntheticSeedDays:      "400",
	KeyBacktestDefaultCapital: "100000",
}

const (
	defaultOptimizerIterations    = 3000
	defaultRiskFreeRate           = 0.02
	defaultHistoryLookbackDays    = 252
	defaultSyntheticSeedDays      = 400
	defaultBacktestDefaultCapital = 100000.0
)
