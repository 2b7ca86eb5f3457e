// Package models defines the shared domain types for the watch engine.
package models

// Quote is the per-cycle snapshot of one symbol as returned by the market
// data provider. Optional fields are pointers: the provider may return
// partial data and absence is meaningful (a missing price suppresses alert
// evaluation, a missing previous close suppresses the percent rules).
type Quote struct {
	Symbol        string
	Price         *float64
	PreviousClose *float64
	Volume        int64
	Name          string
	Closes        []float64 // historical daily closes, most-recent-last
}

// DisplayPrice resolves the price used for rendering: the live price when
// present, otherwise the previous close. Returns nil when neither exists.
func (q Quote) DisplayPrice() *float64 {
	if q.Price != nil {
		return q.Price
	}
	return q.PreviousClose
}

// ChangePercent computes the percent change against the previous close.
// Returns 0 when the previous close is absent or zero; the line is still
// rendered with a +0.0% segment in that case.
func (q Quote) ChangePercent() float64 {
	price := q.DisplayPrice()
	if price == nil || q.PreviousClose == nil || *q.PreviousClose == 0 {
		return 0
	}
	return (*price - *q.PreviousClose) / *q.PreviousClose * 100
}

// FetchResult is the per-symbol outcome of a provider fetch. A failed symbol
// carries its error here instead of aborting the batch.
type FetchResult struct {
	Quote Quote
	Err   error
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
