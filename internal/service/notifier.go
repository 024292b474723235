package service

import (
	"context"

	"github.com/google/uuid"
)

// Notifier surfaces a user-visible notification for a fired reminder.
// Implementations live in internal/platform/notify. Delivery is
// fire-and-forget: the lifecycle core never observes or retries failures.
type Notifier interface {
	Notify(ctx context.Context, noteID uuid.UUID, title, body string)
}
