package formulas

import (
	"github.com/markcheno/go-talib"
)

// RSI calculates the current Relative Strength Index over the given period
// (typically 14). Returns nil if there is not enough data.
func RSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	values := talib.Rsi(closes, period)
	if len(values) == 0 {
		return nil
	}

	last := values[len(values)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

// SMA calculates the current simple moving average over the given period.
// Returns nil if there is not enough data.
func SMA(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}

	values := talib.Sma(closes, period)
	if len(values) == 0 {
		return nil
	}

	last := values[len(values)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
