package calculations_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/aristath/frontier/internal/modules/calculations"
	frontiertest "github.com/aristath/frontier/internal/testing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	db := frontiertest.NewTestDB(t, "cache")
	return NewCache(db.Conn(), zerolog.Nop())
}

func TestCacheSetGet(t *testing.T) {
	cache := newTestCache(t)

	_, ok := cache.Get("optimize", "missing")
	assert.False(t, ok)

	require.NoError(t, cache.Set("optimize", "key1", []byte("payload"), time.Hour))
	got, ok := cache.Get("optimize", "key1")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	// Same key in another category is independent.
	_, ok = cache.Get("other", "key1")
	assert.False(t, ok)

	// Overwrite replaces the payload.
	require.NoError(t, cache.Set("optimize", "key1", []byte("fresh"), time.Hour))
	got, ok = cache.Get("optimize", "key1")
	require.True(t, ok)
	assert.Equal(t, []byte("fresh"), got)
}

func TestCacheExpiry(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Set("optimize", "stale", []byte("old"), -time.Second))
	_, ok := cache.Get("optimize", "stale")
	assert.False(t, ok, "expired entries are misses")

	removed, err := cache.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestCacheInvalidate(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Set("optimize", "a", []byte("1"), time.Hour))
	require.NoError(t, cache.Set("optimize", "b", []byte("2"), time.Hour))
	require.NoError(t, cache.Set("other", "a", []byte("3"), time.Hour))

	require.NoError(t, cache.Invalidate("optimize"))

	_, ok := cache.Get("optimize", "a")
	assert.False(t, ok)
	_, ok = cache.Get("other", "a")
	assert.True(t, ok)
}

func TestHashTickers_OrderIndependent(t *testing.T) {
	a := HashTickers([]string{"AAPL", "MSFT", "NVDA"})
	b := HashTickers([]string{"NVDA", "AAPL", "MSFT"})
	assert.Equal(t, a, b)
	assert.Len(t, a, 32, "16 bytes hex encoded")

	c := HashTickers([]string{"AAPL", "MSFT"})
	assert.NotEqual(t, a, c)
}

func TestHashOptimizeKey_SensitiveToParameters(t *testing.T) {
	base := HashOptimizeKey([]string{"AAPL", "MSFT"}, 3000, 0.02)

	assert.Equal(t, base, HashOptimizeKey([]string{"MSFT", "AAPL"}, 3000, 0.02))
	assert.NotEqual(t, base, HashOptimizeKey([]string{"AAPL", "MSFT"}, 1000, 0.02))
	assert.NotEqual(t, base, HashOptimizeKey([]string{"AAPL", "MSFT"}, 3000, 0.03))
}
