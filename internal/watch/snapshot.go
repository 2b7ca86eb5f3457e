package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "market-watch/internal/errors"
	"market-watch/internal/models"
)

// snapshotTimeFormat is the header timestamp layout.
const snapshotTimeFormat = "2006-01-02 15:04 UTC"

// RenderSnapshot builds the full snapshot report: header, one quote line per
// symbol in the order given, and a conditional section with this cycle's
// newly-fired alerts. The result ends with a trailing newline.
func RenderSnapshot(ts time.Time, quoteLines []string, alerts []models.AlertEvent) string {
	lines := []string{
		"# Market Snapshot — " + ts.UTC().Format(snapshotTimeFormat),
		"",
	}
	for _, l := range quoteLines {
		lines = append(lines, "- "+l)
	}

	if len(alerts) > 0 {
		lines = append(lines, "", "## ⚠️ Triggered Alerts", "")
		for _, a := range alerts {
			lines = append(lines, "- "+a.Message)
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// SnapshotWriter persists the rendered report, overwriting the previous
// artifact in full every cycle.
type SnapshotWriter struct {
	path string
}

// NewSnapshotWriter creates a writer backed by the given file path.
func NewSnapshotWriter(path string) *SnapshotWriter {
	return &SnapshotWriter{path: path}
}

// Path returns the artifact file path.
func (w *SnapshotWriter) Path() string {
	return w.path
}

// Write renders and persists the snapshot.
func (w *SnapshotWriter) Write(ts time.Time, quoteLines []string, alerts []models.AlertEvent) (string, error) {
	report := RenderSnapshot(ts, quoteLines, alerts)
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return "", apperrors.NewStoreError("mkdir", w.path, err)
	}
	if err := os.WriteFile(w.path, []byte(report), 0644); err != nil {
		return "", apperrors.NewStoreError("write", w.path, err)
	}
	return report, nil
}
