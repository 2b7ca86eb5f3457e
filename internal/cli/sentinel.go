package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"market-watch/internal/notify"
	"market-watch/pkg/utils"
)

// historyKeepDays bounds the local price-history cache.
const historyKeepDays = 30

func newSentinelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sentinel",
		Short: "Run one silent poll cycle",
		Long: `Run a single poll cycle against the watchlist and print nothing
unless a threshold fires for the first time today. Any stdout at all is
the escalation signal for an external scheduler; exit code stays zero
either way.`,
		Example: `  market sentinel
  */5 * * * * market sentinel`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(),
				time.Duration(app.Config.Provider.TimeoutSec)*time.Second)
			defer cancel()

			app.Logger.Debug().
				Str("market_status", utils.MarketStatus(time.Now())).
				Msg("Sentinel cycle starting")

			result, err := app.newEngine().RunCycle(ctx)
			if err != nil {
				return err
			}
			if !result.Ran {
				app.Logger.Debug().Msg("Watchlist empty, cycle skipped")
				return nil
			}

			if app.History != nil {
				if err := app.History.Prune(ctx, historyKeepDays); err != nil {
					app.Logger.Warn().Err(err).Msg("History prune failed")
				}
			}

			if len(result.Alerts) == 0 {
				return nil
			}

			app.Notifier.Send(ctx, notify.Report{
				Timestamp: result.Timestamp,
				Alerts:    result.Alerts,
			})

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"timestamp": result.Timestamp.UTC().Format("2006-01-02 15:04 UTC"),
					"alerts":    result.Alerts,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Market Alert (%s):\n",
				result.Timestamp.UTC().Format("2006-01-02 15:04 UTC"))
			for _, ev := range result.Alerts {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ev.Message)
			}
			return nil
		},
	}
}
