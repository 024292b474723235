package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FireSource identifies which trigger facility raised a fire event.
type FireSource string

// Possible fire sources
const (
	FireSourceTime   FireSource = "time"
	FireSourceRegion FireSource = "region"
)

// FireEvent represents a trigger source's condition being met for a
// reminder. It carries only the reminder ID; the handler resolves
// everything else from the store, since the event may arrive in a
// freshly started process with no other state.
type FireEvent struct {
	// ID is a unique identifier for this event delivery
	ID uuid.UUID `json:"id"`

	// ReminderID identifies the reminder whose trigger fired
	ReminderID uuid.UUID `json:"reminder_id"`

	// Source indicates which trigger facility raised the event
	Source FireSource `json:"source"`

	// OccurredAt is the timestamp when the trigger condition was met
	OccurredAt time.Time `json:"occurred_at"`
}

// NewFireEvent creates a FireEvent for the given reminder and source.
func NewFireEvent(reminderID uuid.UUID, source FireSource) *FireEvent {
	return &FireEvent{
		ID:         uuid.New(),
		ReminderID: reminderID,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
}

// FireHandler defines an interface for components that can handle fire events.
// The reminder lifecycle core is the intended implementation.
type FireHandler interface {
	// HandleFireEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleFireEvent(ctx context.Context, event *FireEvent) error
}

// FireEmitter defines an interface for components that can emit fire events.
// This allows trigger sources to publish fires without direct knowledge of
// the core.
type FireEmitter interface {
	// EmitFire publishes the given event to all registered handlers.
	// Returns an error if any handler fails.
	EmitFire(ctx context.Context, event *FireEvent) error
}
