package testing

import (
	"fmt"
	"time"

	"github.com/aristath/frontier/internal/domain"
)

// LinearPrices builds a weekday price series of the given length starting at
// startDate, where each close increases by step from the base price. Handy
// for tests that need predictable returns.
func LinearPrices(startDate string, base, step float64, n int) []domain.PricePoint {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		panic(fmt.Sprintf("invalid fixture start date %q: %v", startDate, err))
	}

	points := make([]domain.PricePoint, 0, n)
	d := start
	for len(points) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			points = append(points, domain.PricePoint{
				Date:  d.Format("2006-01-02"),
				Close: base + step*float64(len(points)),
			})
		}
		d = d.AddDate(0, 0, 1)
	}
	return points
}

// DailyDates returns n consecutive calendar dates starting at startDate,
// formatted as ISO-8601 strings.
func DailyDates(startDate string, n int) []string {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		panic(fmt.Sprintf("invalid fixture start date %q: %v", startDate, err))
	}

	dates := make([]string, n)
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return dates
}
