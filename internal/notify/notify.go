// Package notify delivers fired-alert reports to optional side channels.
// Stdout remains the primary alerting channel; notifiers are best-effort
// extras and their failures never fail a cycle.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"market-watch/internal/config"
	"market-watch/internal/models"
)

// Report is one cycle's fired alerts.
type Report struct {
	Timestamp time.Time           `json:"timestamp"`
	Alerts    []models.AlertEvent `json:"alerts"`
}

// Notifier sends an alert report to a channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, report Report) error
}

// MultiNotifier fans a report out to several channels, logging per-channel
// failures instead of propagating them.
type MultiNotifier struct {
	channels []Notifier
	logger   zerolog.Logger
}

// NewFromConfig builds the notifier set from configuration. Returns nil when
// notifications are disabled or no channel is configured.
func NewFromConfig(cfg config.NotificationConfig, logger zerolog.Logger) *MultiNotifier {
	if !cfg.Enabled {
		return nil
	}

	var channels []Notifier
	if cfg.Webhook.Enabled && cfg.Webhook.URL != "" {
		channels = append(channels, NewWebhookNotifier(cfg.Webhook.URL))
	}
	if len(channels) == 0 {
		return nil
	}
	return &MultiNotifier{channels: channels, logger: logger}
}

// Send delivers the report to every configured channel.
func (m *MultiNotifier) Send(ctx context.Context, report Report) {
	if m == nil || len(report.Alerts) == 0 {
		return
	}
	for _, ch := range m.channels {
		if err := ch.Send(ctx, report); err != nil {
			m.logger.Warn().Str("channel", ch.Name()).Err(err).Msg("Notification failed")
		} else {
			m.logger.Debug().Str("channel", ch.Name()).Int("alerts", len(report.Alerts)).Msg("Notification sent")
		}
	}
}

// WebhookNotifier POSTs the report as JSON.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook channel.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the channel name.
func (w *WebhookNotifier) Name() string {
	return "webhook"
}

// Send posts the report.
func (w *WebhookNotifier) Send(ctx context.Context, report Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
