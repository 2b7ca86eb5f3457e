// Package render formats quotes for single-line, bounded-width display.
package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "market-watch/internal/errors"
	"market-watch/internal/models"
)

// sparkGlyphs is the 8-level sparkline alphabet, lowest to highest.
const sparkGlyphs = "▁▂▃▄▅▆▇█"

// Sparkline converts a short price series to a mini sparkline. Each value is
// linearly scaled into [0, 7] by the series' own min/max. Fewer than two
// points cannot show a trend and yield an empty string; a flat series (all
// values equal) renders the lowest glyph for every point.
func Sparkline(closes []float64) string {
	if len(closes) < 2 {
		return ""
	}

	glyphs := []rune(sparkGlyphs)
	levels := len(glyphs) - 1

	mn, mx := closes[0], closes[0]
	for _, v := range closes {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	rng := mx - mn
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range closes {
		idx := int((v - mn) / rng * float64(levels))
		if idx > levels {
			idx = levels
		}
		b.WriteRune(glyphs[idx])
	}
	return b.String()
}

// FormatVolume renders a share volume with a K/M/B suffix at the
// 1e3/1e6/1e9 thresholds, one decimal place, else the raw integer.
func FormatVolume(v int64) string {
	f := float64(v)
	switch {
	case f >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", f/1_000_000_000)
	case f >= 1_000_000:
		return fmt.Sprintf("%.1fM", f/1_000_000)
	case f >= 1_000:
		return fmt.Sprintf("%.1fK", f/1_000)
	}
	return strconv.FormatInt(v, 10)
}

// FormatPercent renders a percent change to one decimal place with an
// explicit + for non-negative values.
func FormatPercent(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatThreshold renders a threshold value the way it appears in alert keys
// and messages: shortest decimal representation, so 5.0 reads as "5".
func FormatThreshold(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// QuoteLine renders a token-efficient single-line quote:
//
//	AAPL: $94.00 (-6.0%) | Vol: 1.2M | ▁▃▇ | Apple Inc.
//
// The sparkline segment is omitted when the close series is too short. A
// quote with no resolvable price yields the "NO DATA" sentinel line.
func QuoteLine(q models.Quote) string {
	price := q.DisplayPrice()
	if price == nil {
		return fmt.Sprintf("%s: NO DATA", q.Symbol)
	}

	pct := q.ChangePercent()
	spark := Sparkline(q.Closes)
	sparkPart := ""
	if spark != "" {
		sparkPart = fmt.Sprintf(" | %s", spark)
	}

	return fmt.Sprintf("%s: $%.2f (%s) | Vol: %s%s | %s",
		q.Symbol, *price, FormatPercent(pct), FormatVolume(q.Volume), sparkPart, q.Name)
}

// ErrorLine renders the degraded line for a symbol whose fetch failed. A
// FetchError is unwrapped so the line carries the cause, not the envelope.
func ErrorLine(symbol string, err error) string {
	var fe *apperrors.FetchError
	if errors.As(err, &fe) && fe.Err != nil {
		err = fe.Err
	}
	return fmt.Sprintf("%s: ERROR — %v", symbol, err)
}
