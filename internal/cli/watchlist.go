package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"market-watch/internal/models"
	"market-watch/internal/render"
)

func newWatchlistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Watchlist management",
		Long:  "Add, remove, and list watched symbols and their alert rules.",
	}

	cmd.AddCommand(newWatchlistListCmd(app))
	cmd.AddCommand(newWatchlistAddCmd(app))
	cmd.AddCommand(newWatchlistRemoveCmd(app))

	return cmd
}

func newWatchlistListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List watched symbols",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			wl, err := app.Watchlist.Load()
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(wl)
			}

			if len(wl.Symbols) == 0 {
				output.Println("Watchlist is empty.")
				return nil
			}

			for _, sym := range wl.SortedSymbols() {
				output.Println(describeEntry(sym, wl.Symbols[sym]))
			}
			return nil
		},
	}
}

// describeEntry renders one watchlist row, e.g.
// "AAPL | alert-down>5% | alert-above>$250".
func describeEntry(symbol string, rules models.AlertRules) string {
	parts := []string{symbol}
	if rules.DownPct != nil {
		parts = append(parts, fmt.Sprintf("alert-down>%s%%", render.FormatThreshold(*rules.DownPct)))
	}
	if rules.UpPct != nil {
		parts = append(parts, fmt.Sprintf("alert-up>%s%%", render.FormatThreshold(*rules.UpPct)))
	}
	if rules.PriceAbove != nil {
		parts = append(parts, fmt.Sprintf("alert-above>$%s", render.FormatThreshold(*rules.PriceAbove)))
	}
	if rules.PriceBelow != nil {
		parts = append(parts, fmt.Sprintf("alert-below>$%s", render.FormatThreshold(*rules.PriceBelow)))
	}
	return strings.Join(parts, " | ")
}

func newWatchlistAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Add or update a watched symbol",
		Long: `Add a symbol to the watchlist, or update an existing entry. Only the
rule flags given on the command line are changed; other configured rules
for the symbol are preserved. Percent thresholds are normalized to
positive magnitudes.`,
		Example: `  market watchlist add AAPL --alert-down 5
  market watchlist add NVDA --alert-up 3 --alert-price 1200
  market watchlist add TSLA --alert-below 150`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			rules := models.AlertRules{}
			if cmd.Flags().Changed("alert-down") {
				v, _ := cmd.Flags().GetFloat64("alert-down")
				rules.DownPct = models.Float(v)
			}
			if cmd.Flags().Changed("alert-up") {
				v, _ := cmd.Flags().GetFloat64("alert-up")
				rules.UpPct = models.Float(v)
			}
			if cmd.Flags().Changed("alert-price") {
				v, _ := cmd.Flags().GetFloat64("alert-price")
				rules.PriceAbove = models.Float(v)
			}
			if cmd.Flags().Changed("alert-below") {
				v, _ := cmd.Flags().GetFloat64("alert-below")
				rules.PriceBelow = models.Float(v)
			}

			wl, err := app.Watchlist.Add(symbol, rules)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol": symbol,
					"rules":  wl.Symbols[symbol],
				})
			}

			output.Success("✓ Added/Updated %s in watchlist", symbol)
			if wl.Symbols[symbol].Empty() {
				output.Warning("No alert rules configured; %s will appear in snapshots only", symbol)
			} else {
				output.Dim("%s", describeEntry(symbol, wl.Symbols[symbol]))
			}
			return nil
		},
	}

	cmd.Flags().Float64("alert-down", 0, "alert if down N percent from previous close")
	cmd.Flags().Float64("alert-up", 0, "alert if up N percent from previous close")
	cmd.Flags().Float64("alert-price", 0, "alert if price reaches N or above")
	cmd.Flags().Float64("alert-below", 0, "alert if price drops to N or below")

	return cmd
}

func newWatchlistRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <symbol>",
		Aliases: []string{"remove"},
		Short:   "Remove a symbol from the watchlist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			removed, err := app.Watchlist.Remove(symbol)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":  symbol,
					"removed": removed,
				})
			}

			if removed {
				output.Success("✓ Removed %s from watchlist", symbol)
			} else {
				output.Println(symbol + " not in watchlist.")
			}
			return nil
		},
	}
}
