// Package config provides configuration management for the watch engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration. The persisted watchlist keeps
// its own defaults (poll interval) inside watchlist.json; this config covers
// the ambient concerns only.
type Config struct {
	Watch         WatchConfig        `mapstructure:"watch"`
	Provider      ProviderConfig     `mapstructure:"provider"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`

	// DataDir is where watchlist.json, sentinel-state.json, the snapshot
	// artifact and the history database live. Defaults to the config dir.
	DataDir string `mapstructure:"data_dir"`
}

// WatchConfig holds watch-engine configuration.
type WatchConfig struct {
	HistoryDays   int  `mapstructure:"history_days"`
	RecordHistory bool `mapstructure:"record_history"`
}

// ProviderConfig holds market data provider configuration.
type ProviderConfig struct {
	TimeoutSec  int `mapstructure:"timeout_sec"`
	MaxRetries  int `mapstructure:"max_retries"`
	RetryWaitMs int `mapstructure:"retry_wait_ms"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/market-watch"
	}
	return filepath.Join(home, ".config", "market-watch")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing config
// file is not an error: a template is written and defaults apply, so a first
// run works without setup.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateConfig(configDir); werr != nil {
				return nil, werr
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("data_dir", configDir)
	v.SetDefault("watch.history_days", 5)
	v.SetDefault("watch.record_history", true)
	v.SetDefault("provider.timeout_sec", 15)
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("provider.retry_wait_ms", 200)
	v.SetDefault("notifications.enabled", false)
	v.SetDefault("notifications.webhook.enabled", false)
	v.SetDefault("notifications.webhook.url", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MARKET_WATCH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("MARKET_WATCH_WEBHOOK_URL"); v != "" {
		cfg.Notifications.Webhook.URL = v
		cfg.Notifications.Webhook.Enabled = true
		cfg.Notifications.Enabled = true
	}
	if v := os.Getenv("MARKET_WATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MARKET_WATCH_HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Watch.HistoryDays = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Watch.HistoryDays < 0 {
		return fmt.Errorf("watch.history_days must be non-negative")
	}
	if c.Provider.TimeoutSec <= 0 {
		return fmt.Errorf("provider.timeout_sec must be positive")
	}
	if c.Provider.MaxRetries < 1 {
		return fmt.Errorf("provider.max_retries must be at least 1")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	if c.Notifications.Webhook.Enabled && c.Notifications.Webhook.URL == "" {
		return fmt.Errorf("notifications.webhook.url required when webhook enabled")
	}
	return nil
}

// WatchlistPath returns the path of the persisted watchlist.
func (c *Config) WatchlistPath() string {
	return filepath.Join(c.DataDir, "watchlist.json")
}

// StatePath returns the path of the persisted fired-alert state.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "sentinel-state.json")
}

// SummaryPath returns the path of the snapshot artifact.
func (c *Config) SummaryPath() string {
	return filepath.Join(c.DataDir, "market-summary.md")
}

// HistoryDBPath returns the path of the price-history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// LogFilePath returns the path of the rotating log file.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.DataDir, "logs", "market.log")
}
