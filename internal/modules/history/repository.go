// Package history stores and serves daily closing prices.
// Prices live in history.db and are the raw material for the statistics,
// simulation and backtest modules.
package history

import (
	"database/sql"
	"fmt"

	"github.com/aristath/frontier/internal/domain"
	"github.com/rs/zerolog"
)

// InitSchema creates the daily_prices table if it does not exist.
// Dates are stored as ISO-8601 strings so lexicographic order matches
// chronological order.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_prices (
			ticker TEXT NOT NULL,
			date TEXT NOT NULL,
			close REAL NOT NULL,
			PRIMARY KEY (ticker, date)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_daily_prices_ticker_date
		ON daily_prices (ticker, date)
	`)
	if err != nil {
		return fmt.Errorf("failed to create history index: %w", err)
	}
	return nil
}

// Repository provides access to stored daily prices.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new history repository backed by history.db.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "history").Logger(),
	}
}

// SavePrices upserts a batch of price points for a ticker in a single
// transaction. Re-saving the same date overwrites the close.
func (r *Repository) SavePrices(ticker string, points []domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin price transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (ticker, date, close)
		VALUES (?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET close = excluded.close
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare price insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(ticker, p.Date, p.Close); err != nil {
			return fmt.Errorf("failed to insert price %s %s: %w", ticker, p.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prices: %w", err)
	}
	return nil
}

// GetDailyPrices fetches up to limit of the most recent closes for a
// ticker, returned in ascending date order. limit <= 0 means no limit.
func (r *Repository) GetDailyPrices(ticker string, limit int) ([]domain.PricePoint, error) {
	query := `
		SELECT date, close FROM (
			SELECT date, close
			FROM daily_prices
			WHERE ticker = ?
			ORDER BY date DESC
			LIMIT ?
		)
		ORDER BY date ASC
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return points, nil
}

// GetPricesSince fetches closes for a ticker on or after the given
// ISO-8601 date, in ascending date order.
func (r *Repository) GetPricesSince(ticker string, since string) ([]domain.PricePoint, error) {
	rows, err := r.db.Query(`
		SELECT date, close
		FROM daily_prices
		WHERE ticker = ? AND date >= ?
		ORDER BY date ASC
	`, ticker, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices since %s: %w", since, err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}

	return points, nil
}

// LatestDate returns the most recent stored date for a ticker, or nil
// when the ticker has no history.
func (r *Repository) LatestDate(ticker string) (*string, error) {
	var date string
	err := r.db.QueryRow(`
		SELECT date FROM daily_prices
		WHERE ticker = ?
		ORDER BY date DESC
		LIMIT 1
	`, ticker).Scan(&date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest date for %s: %w", ticker, err)
	}
	return &date, nil
}

// Tickers returns every ticker with at least one stored price.
func (r *Repository) Tickers() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT ticker FROM daily_prices ORDER BY ticker")
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}

	return tickers, nil
}

// CountPrices returns the number of stored closes for a ticker.
func (r *Repository) CountPrices(ticker string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM daily_prices WHERE ticker = ?", ticker).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count prices for %s: %w", ticker, err)
	}
	return count, nil
}
