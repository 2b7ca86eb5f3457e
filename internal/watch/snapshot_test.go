package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-watch/internal/models"
)

var snapshotTs = time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

func TestRenderSnapshotNoAlerts(t *testing.T) {
	report := RenderSnapshot(snapshotTs, []string{
		"AAPL: $94.00 (-6.0%) | Vol: 1.2M | Apple Inc.",
		"MSFT: $420.50 (+0.0%) | Vol: 900 | Microsoft Corporation",
	}, nil)

	expected := strings.Join([]string{
		"# Market Snapshot — 2025-06-10 14:30 UTC",
		"",
		"- AAPL: $94.00 (-6.0%) | Vol: 1.2M | Apple Inc.",
		"- MSFT: $420.50 (+0.0%) | Vol: 900 | Microsoft Corporation",
		"",
	}, "\n")
	assert.Equal(t, expected, report)
}

func TestRenderSnapshotWithAlerts(t *testing.T) {
	alerts := []models.AlertEvent{
		{Message: "🔴 AAPL down 6.0% (threshold: -5%) — $94.00"},
	}
	report := RenderSnapshot(snapshotTs, []string{"AAPL: $94.00 (-6.0%) | Vol: 1.2M | Apple Inc."}, alerts)

	assert.Contains(t, report, "## ⚠️ Triggered Alerts")
	assert.Contains(t, report, "- 🔴 AAPL down 6.0% (threshold: -5%) — $94.00")
	assert.True(t, strings.HasSuffix(report, "\n"))
}

func TestRenderSnapshotOmitsAlertSectionWhenEmpty(t *testing.T) {
	report := RenderSnapshot(snapshotTs, []string{"AAPL: NO DATA"}, nil)
	assert.NotContains(t, report, "Triggered Alerts")
}

func TestSnapshotWriterPersistsReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "market-summary.md")
	writer := NewSnapshotWriter(path)

	report, err := writer.Write(snapshotTs, []string{"AAPL: NO DATA"}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, report, string(data))
}

func TestSnapshotWriterOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market-summary.md")
	writer := NewSnapshotWriter(path)

	_, err := writer.Write(snapshotTs, []string{"AAPL: NO DATA", "MSFT: NO DATA"}, nil)
	require.NoError(t, err)

	later, err := writer.Write(snapshotTs.Add(time.Hour), []string{"AAPL: NO DATA"}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, later, string(data))
	assert.NotContains(t, string(data), "MSFT")
}
