// Package store provides the local price-history cache.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "market-watch/internal/errors"
)

// HistoryStore records each cycle's observed price per symbol and serves
// recent closes back to the formatter when the provider returns no usable
// history. One row per (symbol, UTC day); repeated cycles within a day
// overwrite the day's row with the latest observation.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens (or creates) the history database.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &HistoryStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *HistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS quote_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		day TEXT NOT NULL,
		price REAL NOT NULL,
		volume INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME NOT NULL,
		UNIQUE(symbol, day)
	);

	CREATE INDEX IF NOT EXISTS idx_quote_history_symbol_day
		ON quote_history(symbol, day);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordQuote upserts the observed price for the symbol's UTC day.
func (s *HistoryStore) RecordQuote(ctx context.Context, symbol string, ts time.Time, price float64, volume int64) error {
	day := ts.UTC().Format("2006-01-02")
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quote_history (symbol, day, price, volume, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol, day) DO UPDATE SET
			price = excluded.price,
			volume = excluded.volume,
			fetched_at = excluded.fetched_at`,
		symbol, day, price, volume, ts.UTC())
	if err != nil {
		return apperrors.Wrapf(err, "recording quote for %s", symbol)
	}
	return nil
}

// RecentCloses returns up to limit recorded prices for the symbol, oldest
// first (most-recent-last, the order the sparkline expects).
func (s *HistoryStore) RecentCloses(ctx context.Context, symbol string, limit int) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT price FROM quote_history
		WHERE symbol = ?
		ORDER BY day DESC
		LIMIT ?`,
		symbol, limit)
	if err != nil {
		return nil, apperrors.Wrapf(err, "querying history for %s", symbol)
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var price float64
		if err := rows.Scan(&price); err != nil {
			return nil, apperrors.Wrapf(err, "scanning history for %s", symbol)
		}
		closes = append(closes, price)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrapf(err, "iterating history for %s", symbol)
	}

	// Reverse newest-first into oldest-first.
	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}
	return closes, nil
}

// Prune deletes history rows older than the given number of days.
func (s *HistoryStore) Prune(ctx context.Context, keepDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays).Format("2006-01-02")
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM quote_history WHERE day < ?`, cutoff)
	if err != nil {
		return apperrors.Wrap(err, "pruning quote history")
	}
	return nil
}

// Close closes the underlying database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
