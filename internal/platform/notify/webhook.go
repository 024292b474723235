package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anchornotes/anchornotes/internal/service"
	"github.com/google/uuid"
)

const webhookTimeout = 10 * time.Second

// WebhookNotifier delivers fired-reminder notifications by POSTing a JSON
// payload to a configured endpoint. Delivery is fire-and-forget: failures
// are logged and never propagated back into the reminder lifecycle.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

var _ service.Notifier = (*WebhookNotifier)(nil)

// webhookPayload is the body POSTed to the webhook endpoint.
type webhookPayload struct {
	NoteID     uuid.UUID `json:"note_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewWebhookNotifier creates a WebhookNotifier for the given endpoint URL.
func NewWebhookNotifier(url string, logger *slog.Logger) (*WebhookNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook URL cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
		logger: logger.With("component", "webhook_notifier"),
	}, nil
}

// Notify implements service.Notifier. The request runs on the caller's
// goroutine but is bounded by the client timeout; a non-2xx response is
// treated the same as a transport error.
func (n *WebhookNotifier) Notify(ctx context.Context, noteID uuid.UUID, title, body string) {
	payload := webhookPayload{
		NoteID:     noteID,
		Title:      title,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("failed to encode webhook payload",
			"error", err, "note_id", noteID)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(data))
	if err != nil {
		n.logger.Error("failed to build webhook request",
			"error", err, "note_id", noteID)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed",
			"error", err, "note_id", noteID)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("webhook delivery rejected",
			"status", resp.StatusCode, "note_id", noteID)
		return
	}

	n.logger.Debug("webhook notification delivered",
		"note_id", noteID, "status", resp.StatusCode)
}
