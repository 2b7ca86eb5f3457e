package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 0, 0, 0, time.UTC)
}

func TestHistoryRecordAndRecentCloses(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordQuote(ctx, "AAPL", day(2025, 6, 8), 100, 1000))
	require.NoError(t, store.RecordQuote(ctx, "AAPL", day(2025, 6, 9), 97, 1100))
	require.NoError(t, store.RecordQuote(ctx, "AAPL", day(2025, 6, 10), 94, 1200))

	closes, err := store.RecentCloses(ctx, "AAPL", 10)
	require.NoError(t, err)
	// Oldest first, the order the sparkline expects.
	assert.Equal(t, []float64{100, 97, 94}, closes)
}

func TestHistoryLimitKeepsMostRecent(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ts := day(2025, 6, 1).AddDate(0, 0, i)
		require.NoError(t, store.RecordQuote(ctx, "AAPL", ts, float64(100+i), 0))
	}

	closes, err := store.RecentCloses(ctx, "AAPL", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{107, 108, 109}, closes)
}

func TestHistorySameDayOverwrites(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	ts := day(2025, 6, 10)
	require.NoError(t, store.RecordQuote(ctx, "AAPL", ts, 94, 1000))
	require.NoError(t, store.RecordQuote(ctx, "AAPL", ts.Add(2*time.Hour), 95.5, 1500))

	closes, err := store.RecentCloses(ctx, "AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{95.5}, closes)
}

func TestHistoryIsPerSymbol(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordQuote(ctx, "AAPL", day(2025, 6, 10), 94, 0))
	require.NoError(t, store.RecordQuote(ctx, "MSFT", day(2025, 6, 10), 420, 0))

	closes, err := store.RecentCloses(ctx, "AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{94}, closes)
}

func TestHistoryEmptySymbol(t *testing.T) {
	store := newTestHistoryStore(t)

	closes, err := store.RecentCloses(context.Background(), "GHOST", 10)
	require.NoError(t, err)
	assert.Empty(t, closes)
}

func TestHistoryPrune(t *testing.T) {
	store := newTestHistoryStore(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -60)
	recent := time.Now().UTC()
	require.NoError(t, store.RecordQuote(ctx, "AAPL", old, 80, 0))
	require.NoError(t, store.RecordQuote(ctx, "AAPL", recent, 94, 0))

	require.NoError(t, store.Prune(ctx, 30))

	closes, err := store.RecentCloses(ctx, "AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{94}, closes)
}
