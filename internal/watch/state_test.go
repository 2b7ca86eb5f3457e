package watch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLoadAbsentFile(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "sentinel-state.json"))
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

	st, err := store.Load(now)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", st.Date)
	assert.Empty(t, st.Fired)
}

func TestStateSameDayAccumulates(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "sentinel-state.json"))
	morning := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	afternoon := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	st, err := store.Load(morning)
	require.NoError(t, err)
	st.Mark("AAPL_down_5")
	require.NoError(t, store.Save(st))

	st, err = store.Load(afternoon)
	require.NoError(t, err)
	assert.True(t, st.Has("AAPL_down_5"))

	st.Mark("NVDA_up_3")
	require.NoError(t, store.Save(st))

	st, err = store.Load(afternoon)
	require.NoError(t, err)
	assert.True(t, st.Has("AAPL_down_5"))
	assert.True(t, st.Has("NVDA_up_3"))
}

func TestStateDailyReset(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "sentinel-state.json"))
	yesterday := time.Date(2025, 6, 10, 23, 55, 0, 0, time.UTC)
	today := time.Date(2025, 6, 11, 0, 5, 0, 0, time.UTC)

	st, err := store.Load(yesterday)
	require.NoError(t, err)
	st.Mark("AAPL_down_5")
	require.NoError(t, store.Save(st))

	// A state stamped with a prior UTC day comes back reinitialized.
	st, err = store.Load(today)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-11", st.Date)
	assert.False(t, st.Has("AAPL_down_5"))
	assert.Empty(t, st.Fired)
}

func TestStateResetIsUTCScoped(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "sentinel-state.json"))

	// 23:00 UTC and 22:00 next-day local in a UTC-5 zone are different UTC
	// days; the stamp must follow UTC.
	est := time.FixedZone("EST", -5*3600)
	evening := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	localNext := time.Date(2025, 6, 10, 20, 0, 0, 0, est) // 2025-06-11 01:00 UTC

	st, err := store.Load(evening)
	require.NoError(t, err)
	st.Mark("AAPL_down_5")
	require.NoError(t, store.Save(st))

	st, err = store.Load(localNext)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-11", st.Date)
	assert.False(t, st.Has("AAPL_down_5"))
}

func TestStateHasAndMark(t *testing.T) {
	st := NewFiredState(time.Now())
	assert.False(t, st.Has("AAPL_down_5"))

	st.Mark("AAPL_down_5", "AAPL_below_90")
	assert.True(t, st.Has("AAPL_down_5"))
	assert.True(t, st.Has("AAPL_below_90"))
	assert.False(t, st.Has("AAPL_up_5"))
}
