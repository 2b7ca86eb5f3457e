package market

import (
	"context"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"github.com/rs/zerolog"

	apperrors "market-watch/internal/errors"
	"market-watch/internal/logging"
	"market-watch/internal/models"
	"market-watch/pkg/utils"
)

// YahooProvider fetches quotes and short daily-close histories from Yahoo
// Finance. Quote lookups are batched; history is fetched per symbol and is
// strictly best-effort (a missing sparkline never fails a quote).
type YahooProvider struct {
	historyDays  int
	retryCfg     utils.RetryConfig
	chartBreaker *Breaker
	logger       zerolog.Logger
}

// YahooConfig holds provider tuning.
type YahooConfig struct {
	HistoryDays int
	MaxRetries  int
	RetryWait   time.Duration
}

// NewYahooProvider creates a Yahoo Finance provider.
func NewYahooProvider(cfg YahooConfig, logger zerolog.Logger) *YahooProvider {
	retryCfg := utils.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.MaxRetries
	}
	if cfg.RetryWait > 0 {
		retryCfg.InitialDelay = cfg.RetryWait
	}
	days := cfg.HistoryDays
	if days <= 0 {
		days = 5
	}
	return &YahooProvider{
		historyDays:  days,
		retryCfg:     retryCfg,
		chartBreaker: NewBreaker(3, 30*time.Second),
		logger:       logger,
	}
}

// Fetch returns a result for every requested symbol. A batch-level failure
// is fanned out to each symbol that got no data, so the caller sees a
// uniform per-symbol shape.
func (p *YahooProvider) Fetch(ctx context.Context, symbols []string) map[string]models.FetchResult {
	results := make(map[string]models.FetchResult, len(symbols))

	quotes, err := p.fetchQuotes(ctx, symbols)

	for _, sym := range symbols {
		fq, ok := quotes[sym]
		if !ok {
			cause := err
			if cause == nil {
				cause = apperrors.ErrNoData
			}
			results[sym] = models.FetchResult{
				Quote: models.Quote{Symbol: sym},
				Err:   apperrors.NewFetchError(sym, cause),
			}
			continue
		}

		q := toQuote(sym, fq)
		q.Closes = p.fetchCloses(ctx, sym)
		results[sym] = models.FetchResult{Quote: q}
	}

	return results
}

func (p *YahooProvider) fetchQuotes(ctx context.Context, symbols []string) (map[string]*finance.Quote, error) {
	started := time.Now()
	quotes, err := utils.RetryWithResult(ctx, p.retryCfg, func() (map[string]*finance.Quote, error) {
		out := make(map[string]*finance.Quote, len(symbols))
		iter := quote.List(symbols)
		for iter.Next() {
			q := iter.Quote()
			if q == nil {
				continue
			}
			out[strings.ToUpper(q.Symbol)] = q
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return out, nil
	})

	event := p.logger.Debug().
		Int("symbols", len(symbols)).
		Dur("duration", time.Since(started))
	if err != nil {
		event.Err(err).Msg("Quote batch failed")
	} else {
		event.Int("returned", len(quotes)).Msg("Quote batch completed")
	}
	return quotes, err
}

// fetchCloses returns up to historyDays daily closes, most-recent-last.
// Errors are logged and swallowed. The chart endpoint sits behind a
// breaker so one flaky history feed does not slow the whole batch.
func (p *YahooProvider) fetchCloses(ctx context.Context, symbol string) []float64 {
	if ctx.Err() != nil {
		return nil
	}
	if err := p.chartBreaker.Allow(); err != nil {
		p.logger.Debug().Str("symbol", symbol).Msg("History fetch skipped, breaker open")
		return nil
	}

	began := time.Now()
	end := began
	start := end.AddDate(0, 0, -p.historyDays)
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var closes []float64
	for iter.Next() {
		bar := iter.Bar()
		if bar == nil {
			continue
		}
		f, _ := bar.Close.Float64()
		closes = append(closes, f)
	}
	err := iter.Err()
	p.chartBreaker.Record(err)
	logging.LogFetch(p.logger, symbol, time.Since(began), err)
	if err != nil {
		return nil
	}
	return closes
}

// toQuote maps the vendor payload onto the engine's quote shape. Fallback
// priority between the vendor's price variants is resolved here, once, so
// formatting and evaluation downstream never look at raw vendor fields.
func toQuote(symbol string, fq *finance.Quote) models.Quote {
	q := models.Quote{
		Symbol: symbol,
		Name:   fq.ShortName,
		Volume: int64(fq.RegularMarketVolume),
	}

	price := fq.RegularMarketPrice
	switch fq.MarketState {
	case finance.MarketStatePre:
		if fq.PreMarketPrice != 0 {
			price = fq.PreMarketPrice
		}
	case finance.MarketStatePost:
		if fq.PostMarketPrice != 0 {
			price = fq.PostMarketPrice
		}
	}
	if price != 0 {
		q.Price = models.Float(price)
	}
	if fq.RegularMarketPreviousClose != 0 {
		q.PreviousClose = models.Float(fq.RegularMarketPreviousClose)
	}

	return q
}
