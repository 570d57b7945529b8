package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_Deterministic(t *testing.T) {
	g := NewGenerator()
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

	first := g.Series("AAPL", end, 200)
	second := g.Series("AAPL", end, 200)
	assert.Equal(t, first, second, "same ticker and range must reproduce the same series")

	other := g.Series("MSFT", end, 200)
	assert.NotEqual(t, first, other, "different tickers take different walks")
}

func TestSeries_WeekdaysOnlyAndPositive(t *testing.T) {
	g := NewGenerator()
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

	points := g.Series("AAPL", end, 100)
	require.NotEmpty(t, points)

	prev := ""
	for _, p := range points {
		d, err := time.Parse("2006-01-02", p.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
		assert.Greater(t, p.Close, 0.0)
		assert.Greater(t, p.Date, prev, "dates must be strictly ascending")
		prev = p.Date
	}
}

func TestNext_SkipsWeekendsAndIsReproducible(t *testing.T) {
	g := NewGenerator()

	// 2024-06-28 is a Friday; the next calendar day is a Saturday.
	friday := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, g.Next("AAPL", friday, 100))

	monday := time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC)
	first := g.Next("AAPL", monday, 100)
	second := g.Next("AAPL", monday, 100)
	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, "2024-06-25", first.Date)
}
