package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Market Watch Configuration

# Directory for watchlist.json, sentinel-state.json, market-summary.md and
# the price-history database. Defaults to this config directory.
# data_dir = ""

[watch]
# Days of daily closes fetched for the sparkline
history_days = 5
# Record each cycle's observed price into the local history database
record_history = true

[provider]
# Per-fetch timeout in seconds
timeout_sec = 15
# Retry attempts for provider calls
max_retries = 3
# Initial retry backoff in milliseconds
retry_wait_ms = 200

[notifications]
# Enable notification channels (stdout alerting works regardless)
enabled = false

[notifications.webhook]
enabled = false
url = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to stderr
console = true
# Log to rotating file under data_dir/logs
file = true
max_size_mb = 50
max_backups = 5
max_age_days = 30
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
