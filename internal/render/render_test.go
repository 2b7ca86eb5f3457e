package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	apperrors "market-watch/internal/errors"
	"market-watch/internal/models"
)

// Property: the sparkline has exactly one glyph per input point and every
// glyph comes from the 8-level alphabet.
func TestProperty_SparklineLengthAndAlphabet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	closesGen := gen.SliceOfN(10, gen.Float64Range(1.0, 5000.0)).
		SuchThat(func(v []float64) bool { return len(v) >= 2 })

	properties.Property("one glyph per point, all from the alphabet", prop.ForAll(
		func(closes []float64) bool {
			spark := Sparkline(closes)
			runes := []rune(spark)
			if len(runes) != len(closes) {
				return false
			}
			for _, r := range runes {
				if !strings.ContainsRune(sparkGlyphs, r) {
					return false
				}
			}
			return true
		},
		closesGen,
	))

	properties.TestingRun(t)
}

// Property: a flat series renders the lowest glyph for every point instead
// of dividing by a zero range.
func TestProperty_SparklineFlatSeries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("flat series is all lowest glyphs", prop.ForAll(
		func(value float64, n int) bool {
			closes := make([]float64, n)
			for i := range closes {
				closes[i] = value
			}
			expected := strings.Repeat("▁", n)
			return Sparkline(closes) == expected
		},
		gen.Float64Range(0.01, 10000.0),
		gen.IntRange(2, 30),
	))

	properties.TestingRun(t)
}

func TestSparklineTooShort(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "", Sparkline([]float64{100.0}))
}

func TestSparklineExtremes(t *testing.T) {
	// Min and max of the series map to the first and last glyph.
	spark := []rune(Sparkline([]float64{1, 8}))
	assert.Equal(t, '▁', spark[0])
	assert.Equal(t, '█', spark[1])
}

func TestFormatVolume(t *testing.T) {
	tests := []struct {
		volume   int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1.0K"},
		{45_200, "45.2K"},
		{999_999, "1000.0K"},
		{1_200_000, "1.2M"},
		{987_654_321, "987.7M"},
		{1_000_000_000, "1.0B"},
		{2_500_000_000, "2.5B"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatVolume(tt.volume), "volume %d", tt.volume)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+0.0%", FormatPercent(0))
	assert.Equal(t, "+2.5%", FormatPercent(2.5))
	assert.Equal(t, "-6.0%", FormatPercent(-6.0))
	assert.Equal(t, "+0.0%", FormatPercent(0.04))
}

func TestFormatThreshold(t *testing.T) {
	assert.Equal(t, "5", FormatThreshold(5.0))
	assert.Equal(t, "2.5", FormatThreshold(2.5))
	assert.Equal(t, "1200", FormatThreshold(1200.0))
}

func TestQuoteLineFull(t *testing.T) {
	q := models.Quote{
		Symbol:        "AAPL",
		Price:         models.Float(94.0),
		PreviousClose: models.Float(100.0),
		Volume:        1_200_000,
		Name:          "Apple Inc.",
		Closes:        []float64{100, 97, 94},
	}

	line := QuoteLine(q)
	assert.Equal(t, "AAPL: $94.00 (-6.0%) | Vol: 1.2M | █▄▁ | Apple Inc.", line)
}

func TestQuoteLineNoHistory(t *testing.T) {
	q := models.Quote{
		Symbol:        "MSFT",
		Price:         models.Float(420.5),
		PreviousClose: models.Float(420.5),
		Volume:        900,
		Name:          "Microsoft Corporation",
	}

	// No sparkline segment when the close series is too short, and an
	// unchanged price still renders an explicit +0.0%.
	assert.Equal(t, "MSFT: $420.50 (+0.0%) | Vol: 900 | Microsoft Corporation", QuoteLine(q))
}

func TestQuoteLineFallsBackToPreviousClose(t *testing.T) {
	q := models.Quote{
		Symbol:        "TSLA",
		PreviousClose: models.Float(250.0),
		Volume:        1_000,
		Name:          "Tesla, Inc.",
	}

	line := QuoteLine(q)
	assert.Contains(t, line, "$250.00")
	assert.Contains(t, line, "+0.0%")
}

func TestQuoteLineNoData(t *testing.T) {
	q := models.Quote{Symbol: "BOGUS"}
	assert.Equal(t, "BOGUS: NO DATA", QuoteLine(q))
}

func TestErrorLineUnwrapsFetchError(t *testing.T) {
	err := apperrors.NewFetchError("AAPL", apperrors.ErrTimeout)
	line := ErrorLine("AAPL", err)
	assert.Equal(t, "AAPL: ERROR — operation timed out", line)
}

func TestErrorLinePlainError(t *testing.T) {
	line := ErrorLine("MSFT", errors.New("connection reset"))
	assert.Equal(t, "MSFT: ERROR — connection reset", line)
}
