package watch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "market-watch/internal/errors"
)

// dayFormat is the UTC calendar-day stamp used for the daily reset.
const dayFormat = "2006-01-02"

// FiredState is the day-scoped set of alert keys already notified. A key in
// Fired suppresses re-notification of the same (symbol, rule, threshold)
// until the next UTC day.
type FiredState struct {
	Date  string   `json:"date"`
	Fired []string `json:"fired"`
}

// NewFiredState returns an empty state stamped with now's UTC day.
func NewFiredState(now time.Time) *FiredState {
	return &FiredState{
		Date:  now.UTC().Format(dayFormat),
		Fired: []string{},
	}
}

// Has reports whether the alert key has already fired today.
func (st *FiredState) Has(key string) bool {
	for _, k := range st.Fired {
		if k == key {
			return true
		}
	}
	return false
}

// Mark appends newly-fired alert keys.
func (st *FiredState) Mark(keys ...string) {
	st.Fired = append(st.Fired, keys...)
}

// StateStore persists the fired-alert state as a JSON file.
type StateStore struct {
	path string
}

// NewStateStore creates a store backed by the given file path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Path returns the backing file path.
func (s *StateStore) Path() string {
	return s.path
}

// Load returns the persisted state. A state stamped with a prior UTC day is
// stale and comes back reinitialized empty (the daily reset); the transition
// is implicit, never signaled. Absence yields a fresh state.
func (s *StateStore) Load(now time.Time) (*FiredState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewFiredState(now), nil
		}
		return nil, apperrors.NewStoreError("read", s.path, err)
	}

	st := &FiredState{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, apperrors.NewStoreError("parse", s.path, err)
	}

	if st.Date != now.UTC().Format(dayFormat) {
		return NewFiredState(now), nil
	}
	if st.Fired == nil {
		st.Fired = []string{}
	}
	return st, nil
}

// Save writes the state unconditionally, keeping the date stamp fresh even
// on cycles that fire nothing.
func (s *StateStore) Save(st *FiredState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return apperrors.NewStoreError("mkdir", s.path, err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return apperrors.NewStoreError("encode", s.path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return apperrors.NewStoreError("write", s.path, err)
	}
	return nil
}
