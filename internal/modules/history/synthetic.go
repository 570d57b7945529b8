package history

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/aristath/frontier/internal/domain"
)

// Synthetic series parameters. The generator produces a geometric random
// walk per ticker, seeded from the ticker symbol so repeated runs yield
// identical series.
const (
	syntheticBasePrice  = 100.0
	syntheticDailyDrift = 0.0003
	syntheticDailyVol   = 0.015
)

// Generator produces deterministic synthetic price series. It exists so
// the engine is fully exercisable without a market data subscription.
type Generator struct{}

// NewGenerator creates a synthetic price generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// seedFor derives a stable seed from the ticker symbol.
func seedFor(ticker string) int64 {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	return int64(h.Sum64())
}

// Series generates a weekday close series for a ticker ending at endDate,
// covering approximately the requested number of calendar days.
func (g *Generator) Series(ticker string, endDate time.Time, days int) []domain.PricePoint {
	if days <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seedFor(ticker)))
	price := syntheticBasePrice * (0.5 + rng.Float64())

	start := endDate.AddDate(0, 0, -days)
	var points []domain.PricePoint
	for d := start; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		step := syntheticDailyDrift + syntheticDailyVol*rng.NormFloat64()
		price *= math.Exp(step)
		points = append(points, domain.PricePoint{
			Date:  d.Format("2006-01-02"),
			Close: math.Round(price*100) / 100,
		})
	}
	return points
}

// Next extends a series by one weekday close after the given date,
// continuing the same seeded walk from the last known price. Returns nil
// when the next calendar day is a weekend.
func (g *Generator) Next(ticker string, lastDate time.Time, lastClose float64) *domain.PricePoint {
	next := lastDate.AddDate(0, 0, 1)
	if next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		return nil
	}

	// Seed from ticker and date so extension is reproducible per day.
	h := fnv.New64a()
	h.Write([]byte(ticker))
	h.Write([]byte(next.Format("2006-01-02")))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	step := syntheticDailyDrift + syntheticDailyVol*rng.NormFloat64()
	return &domain.PricePoint{
		Date:  next.Format("2006-01-02"),
		Close: math.Round(lastClose*math.Exp(step)*100) / 100,
	}
}
