package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Generate the market summary from the watchlist",
		Long: `Fetch quotes for every watched symbol, write the market-summary
artifact, and print it. Every currently-breached threshold is listed;
the sentinel's daily de-duplication does not apply here.`,
		Example: `  market snapshot`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(),
				time.Duration(app.Config.Provider.TimeoutSec)*time.Second)
			defer cancel()

			result, err := app.newEngine().RunSnapshot(ctx)
			if err != nil {
				return err
			}
			if !result.Ran {
				output.Println("Watchlist empty, nothing to snapshot.")
				return nil
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"path":   app.Snapshot.Path(),
					"alerts": result.Alerts,
					"errors": result.FetchErrors,
				})
			}

			output.Printf("Snapshot written to %s\n", app.Snapshot.Path())
			output.Printf("%s", result.Report)
			return nil
		},
	}
}
