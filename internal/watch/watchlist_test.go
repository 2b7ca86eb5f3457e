package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "market-watch/internal/errors"
	"market-watch/internal/models"
)

func newTestWatchlistStore(t *testing.T) *WatchlistStore {
	t.Helper()
	return NewWatchlistStore(filepath.Join(t.TempDir(), "watchlist.json"))
}

func TestWatchlistLoadAbsentFile(t *testing.T) {
	store := newTestWatchlistStore(t)

	wl, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, wl.Symbols)
	assert.Equal(t, DefaultPollIntervalMin, wl.Defaults.PollIntervalMin)
}

func TestWatchlistAddAndLoad(t *testing.T) {
	store := newTestWatchlistStore(t)

	_, err := store.Add("AAPL", models.AlertRules{DownPct: models.Float(5)})
	require.NoError(t, err)

	wl, err := store.Load()
	require.NoError(t, err)
	require.Contains(t, wl.Symbols, "AAPL")
	require.NotNil(t, wl.Symbols["AAPL"].DownPct)
	assert.Equal(t, 5.0, *wl.Symbols["AAPL"].DownPct)
}

func TestWatchlistAddUppercasesSymbol(t *testing.T) {
	store := newTestWatchlistStore(t)

	wl, err := store.Add("aapl", models.AlertRules{PriceBelow: models.Float(150)})
	require.NoError(t, err)
	assert.Contains(t, wl.Symbols, "AAPL")
	assert.NotContains(t, wl.Symbols, "aapl")
}

func TestWatchlistPartialUpdatePreservesOtherRules(t *testing.T) {
	store := newTestWatchlistStore(t)

	_, err := store.Add("NVDA", models.AlertRules{DownPct: models.Float(5)})
	require.NoError(t, err)

	wl, err := store.Add("NVDA", models.AlertRules{PriceAbove: models.Float(1200)})
	require.NoError(t, err)

	entry := wl.Symbols["NVDA"]
	require.NotNil(t, entry.DownPct)
	require.NotNil(t, entry.PriceAbove)
	assert.Equal(t, 5.0, *entry.DownPct)
	assert.Equal(t, 1200.0, *entry.PriceAbove)
	assert.Nil(t, entry.UpPct)
	assert.Nil(t, entry.PriceBelow)
}

func TestWatchlistNormalizesPercentSign(t *testing.T) {
	store := newTestWatchlistStore(t)

	// A user writing -5 means "down 5 percent"; the stored magnitude is
	// positive either way.
	wl, err := store.Add("AAPL", models.AlertRules{DownPct: models.Float(-5)})
	require.NoError(t, err)
	assert.Equal(t, 5.0, *wl.Symbols["AAPL"].DownPct)
}

func TestWatchlistRejectsZeroPercent(t *testing.T) {
	store := newTestWatchlistStore(t)

	_, err := store.Add("AAPL", models.AlertRules{UpPct: models.Float(0)})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	assert.True(t, apperrors.As(err, &verr))
}

func TestWatchlistRemove(t *testing.T) {
	store := newTestWatchlistStore(t)

	_, err := store.Add("AAPL", models.AlertRules{DownPct: models.Float(5)})
	require.NoError(t, err)

	removed, err := store.Remove("aapl")
	require.NoError(t, err)
	assert.True(t, removed)

	wl, err := store.Load()
	require.NoError(t, err)
	assert.NotContains(t, wl.Symbols, "AAPL")
}

func TestWatchlistRemoveAbsentIsNoOp(t *testing.T) {
	store := newTestWatchlistStore(t)

	removed, err := store.Remove("GHOST")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestWatchlistMalformedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewWatchlistStore(path)
	_, err := store.Load()
	require.Error(t, err)

	var serr *apperrors.StoreError
	assert.True(t, apperrors.As(err, &serr))
}

func TestWatchlistSortedSymbols(t *testing.T) {
	wl := NewWatchlist()
	wl.Symbols["MSFT"] = models.AlertRules{}
	wl.Symbols["AAPL"] = models.AlertRules{}
	wl.Symbols["NVDA"] = models.AlertRules{}

	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, wl.SortedSymbols())
}
