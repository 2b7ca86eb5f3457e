// Package market adapts external market data sources to the watch engine.
package market

import (
	"context"

	"market-watch/internal/models"
)

// Provider supplies quotes for a batch of symbols. The contract is
// best-effort per symbol: a result is returned for every requested symbol,
// with partial or missing provider fields surfacing as nil optionals and an
// individual bad symbol surfacing as a FetchResult carrying an error, never
// as a batch failure.
type Provider interface {
	Fetch(ctx context.Context, symbols []string) map[string]models.FetchResult
}
