package utils

import "time"

// NewYorkLocation is the timezone for US equity markets.
var NewYorkLocation *time.Location

func init() {
	var err error
	NewYorkLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback to UTC-5
		NewYorkLocation = time.FixedZone("EST", -5*60*60)
	}
}

// Market session labels.
const (
	MarketOpen       = "OPEN"
	MarketClosed     = "CLOSED"
	MarketPreMarket  = "PRE_MARKET"
	MarketAfterHours = "AFTER_HOURS"
)

// MarketStatus returns the current US equity session label. Regular hours
// are 9:30-16:00 New York time; pre-market starts 4:00, after-hours ends
// 20:00. Holidays are not modeled.
func MarketStatus(now time.Time) string {
	t := now.In(NewYorkLocation)

	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return MarketClosed
	}

	minutes := t.Hour()*60 + t.Minute()
	switch {
	case minutes >= 4*60 && minutes < 9*60+30:
		return MarketPreMarket
	case minutes >= 9*60+30 && minutes < 16*60:
		return MarketOpen
	case minutes >= 16*60 && minutes < 20*60:
		return MarketAfterHours
	}
	return MarketClosed
}

// IsMarketOpen reports whether the regular session is in progress.
func IsMarketOpen(now time.Time) bool {
	return MarketStatus(now) == MarketOpen
}
