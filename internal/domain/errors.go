package domain

import "errors"

// Engine-level error conditions. These are wrapped with context by the
// modules that raise them and matched by callers with errors.Is.
var (
	// ErrInsufficientData indicates a price series too short for return
	// computation (fewer than 2 points) or mismatched price/date lengths.
	ErrInsufficientData = errors.New("insufficient price data")

	// ErrInsufficientHistory indicates a backtest window not covered by an
	// instrument's price history while that instrument carries material
	// weight. Backtests fail rather than approximate.
	ErrInsufficientHistory = errors.New("insufficient price history for backtest window")

	// ErrZeroVariance indicates a return series with zero standard deviation,
	// which makes correlation undefined.
	ErrZeroVariance = errors.New("zero variance return series")
)
