package watch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "market-watch/internal/errors"
	"market-watch/internal/logging"
	"market-watch/internal/market"
	"market-watch/internal/models"
	"market-watch/internal/render"
)

// QuoteHistory records observed prices and serves recent closes as a
// sparkline fallback when the provider returns no history.
type QuoteHistory interface {
	RecordQuote(ctx context.Context, symbol string, ts time.Time, price float64, volume int64) error
	RecentCloses(ctx context.Context, symbol string, limit int) ([]float64, error)
}

// Engine runs one full load-fetch-evaluate-write cycle. All collaborators
// are injected; there are no ambient singletons. A single invocation is a
// synchronous, run-to-completion batch job.
type Engine struct {
	Watchlist   *WatchlistStore
	State       *StateStore
	Provider    market.Provider
	Snapshot    *SnapshotWriter
	History     QuoteHistory // optional, may be nil
	HistoryDays int
	Logger      zerolog.Logger

	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// CycleResult is the outcome of one cycle.
type CycleResult struct {
	Ran         bool // false for the empty-watchlist idle no-op
	Timestamp   time.Time
	Report      string
	Alerts      []models.AlertEvent
	FetchErrors int
}

// RunCycle executes the sentinel poll cycle: alerts are de-duplicated
// against the fired-state, the snapshot and state are persisted regardless
// of whether anything fired.
func (e *Engine) RunCycle(ctx context.Context) (*CycleResult, error) {
	return e.run(ctx, true)
}

// RunSnapshot executes a one-shot snapshot cycle: every currently-breached
// threshold is reported and the fired-state is neither consulted nor
// written.
func (e *Engine) RunSnapshot(ctx context.Context) (*CycleResult, error) {
	return e.run(ctx, false)
}

func (e *Engine) run(ctx context.Context, dedup bool) (*CycleResult, error) {
	started := e.now()

	wl, err := e.Watchlist.Load()
	if err != nil {
		return nil, err
	}
	if len(wl.Symbols) == 0 {
		return &CycleResult{Ran: false, Timestamp: started}, nil
	}

	var state *FiredState
	if dedup {
		state, err = e.State.Load(started)
		if err != nil {
			return nil, err
		}
	} else {
		state = NewFiredState(started)
	}

	symbols := wl.SortedSymbols()
	results := e.Provider.Fetch(ctx, symbols)

	var (
		lines       []string
		alerts      []models.AlertEvent
		fetchErrors int
	)
	for _, sym := range symbols {
		res, ok := results[sym]
		if !ok {
			res = models.FetchResult{Err: apperrors.NewFetchError(sym, apperrors.ErrNoData)}
		}
		if res.Err != nil {
			// One bad symbol degrades its own line, never the cycle.
			fetchErrors++
			lines = append(lines, render.ErrorLine(sym, res.Err))
			e.Logger.Warn().Str("symbol", sym).Err(res.Err).Msg("Symbol fetch failed")
			continue
		}

		quote := res.Quote
		e.recordHistory(ctx, quote, started)
		if len(quote.Closes) < 2 {
			quote.Closes = e.fallbackCloses(ctx, sym)
		}

		lines = append(lines, render.QuoteLine(quote))

		events, keys := Evaluate(sym, quote, wl.Symbols[sym], state)
		alerts = append(alerts, events...)
		state.Mark(keys...)
		for _, ev := range events {
			logging.LogAlert(e.Logger, ev.Symbol, string(ev.Kind), ev.Observed, ev.Threshold)
		}
	}

	report, err := e.Snapshot.Write(started, lines, alerts)
	if err != nil {
		return nil, err
	}

	if dedup {
		if err := e.State.Save(state); err != nil {
			return nil, err
		}
	}

	logging.LogCycle(e.Logger, len(symbols), fetchErrors, len(alerts), e.now().Sub(started))

	return &CycleResult{
		Ran:         true,
		Timestamp:   started,
		Report:      report,
		Alerts:      alerts,
		FetchErrors: fetchErrors,
	}, nil
}

func (e *Engine) recordHistory(ctx context.Context, q models.Quote, ts time.Time) {
	if e.History == nil || q.Price == nil {
		return
	}
	if err := e.History.RecordQuote(ctx, q.Symbol, ts, *q.Price, q.Volume); err != nil {
		e.Logger.Warn().Str("symbol", q.Symbol).Err(err).Msg("Failed to record quote history")
	}
}

func (e *Engine) fallbackCloses(ctx context.Context, symbol string) []float64 {
	if e.History == nil {
		return nil
	}
	limit := e.HistoryDays
	if limit < 2 {
		limit = 5
	}
	closes, err := e.History.RecentCloses(ctx, symbol, limit)
	if err != nil {
		e.Logger.Debug().Str("symbol", symbol).Err(err).Msg("History lookup failed")
		return nil
	}
	return closes
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
