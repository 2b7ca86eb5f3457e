package watch

import (
	"fmt"

	"market-watch/internal/models"
	"market-watch/internal/render"
)

// Evaluate compares one symbol's quote against its configured thresholds and
// returns the alert events to raise this cycle plus their keys. It is a pure
// function: fired is only consulted, never mutated.
//
// The four rules are independent; a symbol may trigger several at once. A
// rule whose key is already in fired stays silent until the daily reset,
// even if the price keeps moving past the threshold. Absent inputs (no live
// price, no previous close) suppress the corresponding rules rather than
// erroring.
func Evaluate(symbol string, q models.Quote, rules models.AlertRules, fired *FiredState) ([]models.AlertEvent, []string) {
	var events []models.AlertEvent
	var keys []string

	raise := func(ev models.AlertEvent, key string) {
		if fired != nil && fired.Has(key) {
			return
		}
		events = append(events, ev)
		keys = append(keys, key)
	}

	// Percent rules need both a live price and a usable previous close.
	if q.Price != nil && q.PreviousClose != nil && *q.PreviousClose != 0 {
		pct := (*q.Price - *q.PreviousClose) / *q.PreviousClose * 100

		if rules.DownPct != nil && pct <= -*rules.DownPct {
			t := *rules.DownPct
			raise(models.AlertEvent{
				Kind:      models.AlertDownPercent,
				Symbol:    symbol,
				Observed:  pct,
				Threshold: t,
				Message: fmt.Sprintf("🔴 %s down %.1f%% (threshold: -%s%%) — $%.2f",
					symbol, -pct, render.FormatThreshold(t), *q.Price),
			}, alertKey(symbol, "down", t))
		}

		if rules.UpPct != nil && pct >= *rules.UpPct {
			t := *rules.UpPct
			raise(models.AlertEvent{
				Kind:      models.AlertUpPercent,
				Symbol:    symbol,
				Observed:  pct,
				Threshold: t,
				Message: fmt.Sprintf("🟢 %s up +%.1f%% (threshold: +%s%%) — $%.2f",
					symbol, pct, render.FormatThreshold(t), *q.Price),
			}, alertKey(symbol, "up", t))
		}
	}

	if q.Price != nil {
		if rules.PriceAbove != nil && *q.Price >= *rules.PriceAbove {
			t := *rules.PriceAbove
			raise(models.AlertEvent{
				Kind:      models.AlertPriceAbove,
				Symbol:    symbol,
				Observed:  *q.Price,
				Threshold: t,
				Message: fmt.Sprintf("⚡ %s hit $%.2f (upper target: $%s)",
					symbol, *q.Price, render.FormatThreshold(t)),
			}, alertKey(symbol, "price", t))
		}

		if rules.PriceBelow != nil && *q.Price <= *rules.PriceBelow {
			t := *rules.PriceBelow
			raise(models.AlertEvent{
				Kind:      models.AlertPriceBelow,
				Symbol:    symbol,
				Observed:  *q.Price,
				Threshold: t,
				Message: fmt.Sprintf("📉 %s hit $%.2f (lower target: $%s)",
					symbol, *q.Price, render.FormatThreshold(t)),
			}, alertKey(symbol, "below", t))
		}
	}

	return events, keys
}

// alertKey builds the deterministic identifier of one (symbol, rule,
// threshold) combination, e.g. "AAPL_down_5".
func alertKey(symbol, kind string, threshold float64) string {
	return fmt.Sprintf("%s_%s_%s", symbol, kind, render.FormatThreshold(threshold))
}
