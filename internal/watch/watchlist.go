// Package watch implements the threshold-alerting watch engine: the
// persisted watchlist, the day-scoped fired-alert state, the pure alert
// evaluator, the snapshot writer and the poll cycle that ties them together.
package watch

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "market-watch/internal/errors"
	"market-watch/internal/models"
)

// DefaultPollIntervalMin is the poll interval written into a fresh watchlist.
const DefaultPollIntervalMin = 5

// Watchlist is the durable user-configured set of symbols and per-symbol
// alert rules. Symbol keys are always upper-case.
type Watchlist struct {
	Symbols  map[string]models.AlertRules `json:"symbols"`
	Defaults Defaults                     `json:"defaults"`
}

// Defaults holds watchlist-wide settings consumed by the external scheduler.
type Defaults struct {
	PollIntervalMin int `json:"poll_interval_min"`
}

// NewWatchlist returns an empty watchlist with default settings.
func NewWatchlist() *Watchlist {
	return &Watchlist{
		Symbols:  make(map[string]models.AlertRules),
		Defaults: Defaults{PollIntervalMin: DefaultPollIntervalMin},
	}
}

// SortedSymbols returns the watched symbols in ascending lexical order.
func (w *Watchlist) SortedSymbols() []string {
	syms := make([]string, 0, len(w.Symbols))
	for s := range w.Symbols {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// WatchlistStore persists the watchlist as a JSON file. Absence is not an
// error; a malformed file is a fatal configuration fault.
type WatchlistStore struct {
	path string
}

// NewWatchlistStore creates a store backed by the given file path.
func NewWatchlistStore(path string) *WatchlistStore {
	return &WatchlistStore{path: path}
}

// Path returns the backing file path.
func (s *WatchlistStore) Path() string {
	return s.path
}

// Load returns the persisted watchlist, or an empty default when no file
// exists yet.
func (s *WatchlistStore) Load() (*Watchlist, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewWatchlist(), nil
		}
		return nil, apperrors.NewStoreError("read", s.path, err)
	}

	wl := &Watchlist{}
	if err := json.Unmarshal(data, wl); err != nil {
		return nil, apperrors.NewStoreError("parse", s.path, err)
	}
	if wl.Symbols == nil {
		wl.Symbols = make(map[string]models.AlertRules)
	}
	if wl.Defaults.PollIntervalMin == 0 {
		wl.Defaults.PollIntervalMin = DefaultPollIntervalMin
	}
	return wl, nil
}

// Save performs a full overwrite of the persisted watchlist. Last writer
// wins; overlapping invocations are serialized by the external scheduler.
func (s *WatchlistStore) Save(wl *Watchlist) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return apperrors.NewStoreError("mkdir", s.path, err)
	}
	data, err := json.MarshalIndent(wl, "", "  ")
	if err != nil {
		return apperrors.NewStoreError("encode", s.path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return apperrors.NewStoreError("write", s.path, err)
	}
	return nil
}

// Add upserts alert rules for a symbol. Only rule fields explicitly supplied
// (non-nil) overwrite existing ones, so adding an up-percent rule does not
// clear a previously configured down-percent rule. Percent thresholds are
// validated and normalized to positive magnitudes here, at write time, so
// evaluation never sees an inverted sign.
func (s *WatchlistStore) Add(symbol string, rules models.AlertRules) (*Watchlist, error) {
	if err := validateRules(rules); err != nil {
		return nil, err
	}

	wl, err := s.Load()
	if err != nil {
		return nil, err
	}

	key := strings.ToUpper(symbol)
	entry := wl.Symbols[key]
	if rules.DownPct != nil {
		entry.DownPct = models.Float(math.Abs(*rules.DownPct))
	}
	if rules.UpPct != nil {
		entry.UpPct = models.Float(math.Abs(*rules.UpPct))
	}
	if rules.PriceAbove != nil {
		entry.PriceAbove = rules.PriceAbove
	}
	if rules.PriceBelow != nil {
		entry.PriceBelow = rules.PriceBelow
	}
	wl.Symbols[key] = entry

	if err := s.Save(wl); err != nil {
		return nil, err
	}
	return wl, nil
}

// Remove deletes a symbol from the watchlist. Removing an absent symbol is
// a no-op, reported by the boolean return.
func (s *WatchlistStore) Remove(symbol string) (bool, error) {
	wl, err := s.Load()
	if err != nil {
		return false, err
	}

	key := strings.ToUpper(symbol)
	if _, ok := wl.Symbols[key]; !ok {
		return false, nil
	}
	delete(wl.Symbols, key)

	if err := s.Save(wl); err != nil {
		return false, err
	}
	return true, nil
}

func validateRules(rules models.AlertRules) error {
	check := func(field string, v *float64, requireNonZero bool) error {
		if v == nil {
			return nil
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return apperrors.NewValidationError(field, *v, "threshold must be finite")
		}
		if requireNonZero && *v == 0 {
			return apperrors.NewValidationError(field, *v, "percent threshold must be non-zero")
		}
		return nil
	}

	if err := check("alert_down_pct", rules.DownPct, true); err != nil {
		return err
	}
	if err := check("alert_up_pct", rules.UpPct, true); err != nil {
		return err
	}
	if err := check("alert_price", rules.PriceAbove, false); err != nil {
		return err
	}
	return check("alert_below", rules.PriceBelow, false)
}
