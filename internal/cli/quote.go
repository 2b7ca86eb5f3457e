package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"market-watch/internal/models"
	"market-watch/internal/render"
)

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbols>",
		Short: "Get real-time quote(s)",
		Long:  "Fetch compact single-line quotes for comma-separated symbols.",
		Example: `  market quote AAPL
  market quote AVGO,MSFT,AAPL`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(),
				time.Duration(app.Config.Provider.TimeoutSec)*time.Second)
			defer cancel()

			symbols := splitSymbols(args[0])
			if len(symbols) == 0 {
				output.Error("No symbols given")
				return nil
			}

			results := app.Provider.Fetch(ctx, symbols)

			if output.IsJSON() {
				return output.JSON(quotesJSON(symbols, results))
			}

			for _, sym := range symbols {
				res, ok := results[sym]
				if !ok {
					res = models.FetchResult{Quote: models.Quote{Symbol: sym}}
				}
				if res.Err != nil {
					output.Println(render.ErrorLine(sym, res.Err))
					continue
				}
				output.Println(render.QuoteLine(res.Quote))
			}
			return nil
		},
	}
}

// splitSymbols parses a comma-separated symbol list, trimming blanks and
// upper-casing each entry.
func splitSymbols(arg string) []string {
	var symbols []string
	for _, s := range strings.Split(arg, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}
	return symbols
}

type quoteJSON struct {
	Symbol        string    `json:"symbol"`
	Price         *float64  `json:"price,omitempty"`
	PreviousClose *float64  `json:"previous_close,omitempty"`
	ChangePercent *float64  `json:"change_percent,omitempty"`
	Volume        int64     `json:"volume"`
	Name          string    `json:"name,omitempty"`
	Closes        []float64 `json:"closes,omitempty"`
	Error         string    `json:"error,omitempty"`
}

func quotesJSON(symbols []string, results map[string]models.FetchResult) []quoteJSON {
	out := make([]quoteJSON, 0, len(symbols))
	for _, sym := range symbols {
		res, ok := results[sym]
		if !ok {
			res = models.FetchResult{Quote: models.Quote{Symbol: sym}}
		}
		if res.Err != nil {
			out = append(out, quoteJSON{Symbol: sym, Error: res.Err.Error()})
			continue
		}
		q := res.Quote
		entry := quoteJSON{
			Symbol:        q.Symbol,
			Price:         q.DisplayPrice(),
			PreviousClose: q.PreviousClose,
			Volume:        q.Volume,
			Name:          q.Name,
			Closes:        q.Closes,
		}
		if q.DisplayPrice() != nil {
			entry.ChangePercent = models.Float(q.ChangePercent())
		}
		out = append(out, entry)
	}
	return out
}
