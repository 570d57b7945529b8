// Package factors provides a static Fama-French style factor model used to
// estimate expected returns and rank candidate instruments.
package factors

// Annual factor premia in percent. Long-run estimates, fixed at build time;
// the model is a ranking heuristic, not a forecast.
const (
	RiskFreeRate = 4.00 // annual risk-free rate, %
	PremiumMkt   = 5.50 // market excess return (MKT-RF), %
	PremiumSMB   = 2.00 // small minus big, %
	PremiumHML   = 2.50 // high minus low book-to-market, %
	PremiumRMW   = 2.50 // robust minus weak profitability, %
	PremiumCMA   = 2.00 // conservative minus aggressive investment, %
)

// Exposure holds an instrument's factor loadings plus an average-volatility
// heuristic used for efficiency ranking. Reference data, immutable.
type Exposure struct {
	Mkt    float64 `json:"mkt"`
	SMB    float64 `json:"smb"`
	HML    float64 `json:"hml"`
	RMW    float64 `json:"rmw"`
	CMA    float64 `json:"cma"`
	AvgVol float64 `json:"avg_vol"` // average annualized volatility, %
	Market string  `json:"market"`  // market tag used for suggestion filtering
}

// DefaultExposure is applied to tickers missing from the table: pure market
// exposure with a conservative volatility assumption.
var DefaultExposure = Exposure{Mkt: 1.0, AvgVol: 8.0, Market: ""}

// tableEntry pins the table's insertion order, which is the documented
// tie-break for equal efficiency scores in suggestions.
type tableEntry struct {
	Ticker   string
	Exposure Exposure
}

// exposureTable is the static instrument universe. Loadings are rounded
// regression estimates against the five Fama-French factors.
var exposureTable = []tableEntry{
	{"AAPL", Exposure{Mkt: 1.15, SMB: -0.45, HML: -0.35, RMW: 0.55, CMA: -0.30, AvgVol: 22.0, Market: "US"}},
	{"MSFT", Exposure{Mkt: 1.05, SMB: -0.50, HML: -0.40, RMW: 0.60, CMA: -0.25, AvgVol: 20.0, Market: "US"}},
	{"GOOGL", Exposure{Mkt: 1.10, SMB: -0.40, HML: -0.30, RMW: 0.45, CMA: -0.35, AvgVol: 24.0, Market: "US"}},
	{"AMZN", Exposure{Mkt: 1.25, SMB: -0.30, HML: -0.50, RMW: 0.10, CMA: -0.55, AvgVol: 28.0, Market: "US"}},
	{"NVDA", Exposure{Mkt: 1.60, SMB: -0.10, HML: -0.60, RMW: 0.40, CMA: -0.60, AvgVol: 42.0, Market: "US"}},
	{"META", Exposure{Mkt: 1.20, SMB: -0.25, HML: -0.35, RMW: 0.50, CMA: -0.40, AvgVol: 30.0, Market: "US"}},
	{"BRK.B", Exposure{Mkt: 0.85, SMB: -0.20, HML: 0.30, RMW: 0.45, CMA: 0.25, AvgVol: 15.0, Market: "US"}},
	{"JNJ", Exposure{Mkt: 0.65, SMB: -0.30, HML: 0.10, RMW: 0.55, CMA: 0.30, AvgVol: 13.0, Market: "US"}},
	{"JPM", Exposure{Mkt: 1.10, SMB: -0.15, HML: 0.55, RMW: 0.30, CMA: 0.05, AvgVol: 21.0, Market: "US"}},
	{"XOM", Exposure{Mkt: 0.90, SMB: 0.05, HML: 0.60, RMW: 0.25, CMA: 0.15, AvgVol: 23.0, Market: "US"}},
	{"PG", Exposure{Mkt: 0.55, SMB: -0.35, HML: 0.05, RMW: 0.60, CMA: 0.35, AvgVol: 12.0, Market: "US"}},
	{"KO", Exposure{Mkt: 0.60, SMB: -0.30, HML: 0.10, RMW: 0.50, CMA: 0.30, AvgVol: 12.5, Market: "US"}},
	{"SAP", Exposure{Mkt: 0.95, SMB: -0.25, HML: -0.15, RMW: 0.40, CMA: -0.10, AvgVol: 19.0, Market: "DE"}},
	{"SIE.DE", Exposure{Mkt: 1.05, SMB: -0.10, HML: 0.25, RMW: 0.30, CMA: 0.05, AvgVol: 20.0, Market: "DE"}},
	{"ALV.DE", Exposure{Mkt: 0.95, SMB: -0.20, HML: 0.45, RMW: 0.35, CMA: 0.15, AvgVol: 17.0, Market: "DE"}},
	{"BMW.DE", Exposure{Mkt: 1.10, SMB: 0.10, HML: 0.55, RMW: 0.20, CMA: 0.10, AvgVol: 24.0, Market: "DE"}},
	{"ASML", Exposure{Mkt: 1.30, SMB: -0.15, HML: -0.45, RMW: 0.45, CMA: -0.45, AvgVol: 32.0, Market: "NL"}},
	{"MC.PA", Exposure{Mkt: 1.05, SMB: -0.25, HML: 0.00, RMW: 0.50, CMA: -0.05, AvgVol: 22.0, Market: "FR"}},
	{"TTE.PA", Exposure{Mkt: 0.85, SMB: 0.00, HML: 0.55, RMW: 0.25, CMA: 0.20, AvgVol: 21.0, Market: "FR"}},
	{"OPAP.AT", Exposure{Mkt: 0.75, SMB: 0.35, HML: 0.30, RMW: 0.40, CMA: 0.20, AvgVol: 18.0, Market: "GR"}},
	{"OTE.AT", Exposure{Mkt: 0.70, SMB: 0.30, HML: 0.25, RMW: 0.35, CMA: 0.25, AvgVol: 17.0, Market: "GR"}},
	{"EUROB.AT", Exposure{Mkt: 1.15, SMB: 0.45, HML: 0.65, RMW: 0.10, CMA: -0.05, AvgVol: 29.0, Market: "GR"}},
	{"VWCE.DE", Exposure{Mkt: 1.00, SMB: 0.00, HML: 0.00, RMW: 0.05, CMA: 0.05, AvgVol: 14.0, Market: "DE"}},
	{"SXR8.DE", Exposure{Mkt: 1.00, SMB: -0.10, HML: -0.05, RMW: 0.10, CMA: 0.00, AvgVol: 15.0, Market: "DE"}},
}
