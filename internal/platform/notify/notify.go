// Package notify provides Notifier implementations for surfacing fired
// reminders: a structured-log notifier that is always safe to use, and a
// webhook notifier that POSTs to a configured endpoint (typically a push
// relay the mobile clients subscribe to).
package notify

import (
	"context"
	"log/slog"

	"github.com/anchornotes/anchornotes/internal/service"
	"github.com/google/uuid"
)

// LogNotifier writes fired-reminder notifications to the structured log.
// It is the fallback when no webhook endpoint is configured.
type LogNotifier struct {
	logger *slog.Logger
}

var _ service.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

// Notify implements service.Notifier.
func (n *LogNotifier) Notify(_ context.Context, noteID uuid.UUID, title, body string) {
	n.logger.Info("reminder notification",
		"note_id", noteID,
		"title", title,
		"body", body)
}
