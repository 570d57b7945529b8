// Package calculations provides a persistent TTL cache for expensive
// results. Optimization runs over the same ticker set are served from
// cache.db instead of being recomputed.
package calculations

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TTLOptimizer is how long optimization results stay valid. Daily price
// refreshes invalidate anything older anyway.
const TTLOptimizer = 24 * time.Hour

// InitSchema creates the calc_cache table if it does not exist.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS calc_cache (
			category TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB NOT NULL,
			expires_at INTEGER NOT NULL,
			PRIMARY KEY (category, key)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}

// HashTickers creates a deterministic cache key from a list of tickers.
// Tickers are sorted so the key is order-independent.
func HashTickers(tickers []string) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)
	combined := strings.Join(sorted, ",")
	h := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(h[:16])
}

// HashOptimizeKey creates a cache key covering everything that changes
// an optimization result: the ticker set, iteration count and rate.
func HashOptimizeKey(tickers []string, iterations int, riskFreeRate float64) string {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)
	keyData := fmt.Sprintf("%s|%d|%.6f", strings.Join(sorted, ","), iterations, riskFreeRate)
	h := sha256.Sum256([]byte(keyData))
	return hex.EncodeToString(h[:16])
}

// Cache is a sqlite-backed byte cache with per-entry expiry. Values are
// opaque blobs; callers typically store msgpack payloads.
type Cache struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewCache creates a new cache backed by cache.db.
func NewCache(db *sql.DB, log zerolog.Logger) *Cache {
	return &Cache{
		db:  db,
		log: log.With().Str("component", "calc_cache").Logger(),
	}
}

// Get returns the cached value for a category/key pair. Expired entries
// are treated as misses.
func (c *Cache) Get(category, key string) ([]byte, bool) {
	var value []byte
	var expiresAt int64
	err := c.db.QueryRow(`
		SELECT value, expires_at FROM calc_cache
		WHERE category = ? AND key = ?
	`, category, key).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("category", category).Msg("Cache read failed")
		return nil, false
	}
	if time.Now().Unix() >= expiresAt {
		return nil, false
	}
	return value, true
}

// Set stores a value under a category/key pair with the given TTL.
func (c *Cache) Set(category, key string, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).Unix()
	_, err := c.db.Exec(`
		INSERT INTO calc_cache (category, key, value, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category, key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
	`, category, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to cache %s/%s: %w", category, key, err)
	}
	return nil
}

// Invalidate removes every entry in a category.
func (c *Cache) Invalidate(category string) error {
	_, err := c.db.Exec("DELETE FROM calc_cache WHERE category = ?", category)
	if err != nil {
		return fmt.Errorf("failed to invalidate category %s: %w", category, err)
	}
	return nil
}

// Cleanup deletes expired entries and returns how many were removed.
func (c *Cache) Cleanup() (int64, error) {
	res, err := c.db.Exec("DELETE FROM calc_cache WHERE expires_at <= ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to clean cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return removed, nil
}
