package models

// AlertKind identifies which threshold rule produced an alert.
type AlertKind string

const (
	AlertDownPercent AlertKind = "down_percent"
	AlertUpPercent   AlertKind = "up_percent"
	AlertPriceAbove  AlertKind = "price_above"
	AlertPriceBelow  AlertKind = "price_below"
)

// AlertRules is the per-symbol alert configuration. All thresholds are
// independently optional; percent thresholds are stored as positive
// magnitudes (normalized at write time).
type AlertRules struct {
	DownPct    *float64 `json:"alert_down_pct,omitempty"`
	UpPct      *float64 `json:"alert_up_pct,omitempty"`
	PriceAbove *float64 `json:"alert_price,omitempty"`
	PriceBelow *float64 `json:"alert_below,omitempty"`
}

// Empty reports whether no rule of any kind is configured.
func (r AlertRules) Empty() bool {
	return r.DownPct == nil && r.UpPct == nil && r.PriceAbove == nil && r.PriceBelow == nil
}

// AlertEvent is a single fired threshold within one cycle. Events are never
// persisted as structured objects; only the rendered message reaches the
// snapshot and stdout.
type AlertEvent struct {
	Kind      AlertKind `json:"kind"`
	Symbol    string    `json:"symbol"`
	Observed  float64   `json:"observed"`
	Threshold float64   `json:"threshold"`
	Message   string    `json:"message"`
}
