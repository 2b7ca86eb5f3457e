package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"market-watch/internal/config"
	"market-watch/internal/logging"
	"market-watch/internal/market"
	"market-watch/internal/notify"
	"market-watch/internal/store"
	"market-watch/internal/watch"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Provider  market.Provider
	Watchlist *watch.WatchlistStore
	State     *watch.StateStore
	Snapshot  *watch.SnapshotWriter
	History   *store.HistoryStore
	Notifier  *notify.MultiNotifier
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Watchlist: watch.NewWatchlistStore(cfg.WatchlistPath()),
		State:     watch.NewStateStore(cfg.StatePath()),
		Snapshot:  watch.NewSnapshotWriter(cfg.SummaryPath()),
		Notifier:  notify.NewFromConfig(cfg.Notifications, logger),
	}

	app.Provider = market.NewYahooProvider(market.YahooConfig{
		HistoryDays: cfg.Watch.HistoryDays,
		MaxRetries:  cfg.Provider.MaxRetries,
		RetryWait:   time.Duration(cfg.Provider.RetryWaitMs) * time.Millisecond,
	}, logger)

	if cfg.Watch.RecordHistory {
		historyStore, err := store.NewHistoryStore(cfg.HistoryDBPath())
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to open history store, sparkline fallback unavailable")
		} else {
			app.History = historyStore
		}
	}

	rootCmd := &cobra.Command{
		Use:   "market",
		Short: "Market Watch - threshold-alerting watchlist CLI",
		Long: `Market Watch polls quotes for a watchlist of symbols, checks them
against per-symbol alert thresholds, and keeps a compact market snapshot.

The sentinel command runs one silent poll cycle and prints only when a
threshold fires, so an external scheduler can treat any stdout as a signal
to escalate.

Use 'market help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/market-watch)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newSnapshotCmd(app))
	rootCmd.AddCommand(newWatchlistCmd(app))
	rootCmd.AddCommand(newSentinelCmd(app))

	return rootCmd
}

// newEngine assembles the poll cycle engine from the app's collaborators.
func (app *App) newEngine() *watch.Engine {
	engine := &watch.Engine{
		Watchlist:   app.Watchlist,
		State:       app.State,
		Provider:    app.Provider,
		Snapshot:    app.Snapshot,
		HistoryDays: app.Config.Watch.HistoryDays,
		Logger:      app.Logger,
	}
	if app.History != nil {
		engine.History = app.History
	}
	return engine
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Market Watch v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Watch Configuration")
	output.Printf("  Data Dir:        %s\n", cfg.DataDir)
	output.Printf("  History Days:    %d\n", cfg.Watch.HistoryDays)
	output.Printf("  Record History:  %v\n", cfg.Watch.RecordHistory)
	output.Println()

	output.Bold("Provider Configuration")
	output.Printf("  Timeout:         %ds\n", cfg.Provider.TimeoutSec)
	output.Printf("  Max Retries:     %d\n", cfg.Provider.MaxRetries)
	output.Printf("  Retry Wait:      %dms\n", cfg.Provider.RetryWaitMs)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:         %v\n", cfg.Notifications.Enabled)
	output.Printf("  Webhook:         %v\n", cfg.Notifications.Webhook.Enabled)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)

	return nil
}
