package store

import (
	"context"
	"database/sql"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/google/uuid"
)

// ReminderStore defines the interface for reminder data persistence.
type ReminderStore interface {
	// Create saves a new reminder to the store.
	// It handles domain validation internally.
	// Returns ErrActiveReminderExists if the note already has an active
	// reminder (the single-active invariant is also enforced by the schema).
	Create(ctx context.Context, reminder *domain.Reminder) error

	// GetByID retrieves a reminder by its unique ID.
	// Returns ErrReminderNotFound if the reminder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)

	// GetActiveByNoteID retrieves the note's active reminder, if any.
	// Returns ErrReminderNotFound if the note has no active reminder.
	GetActiveByNoteID(ctx context.Context, noteID uuid.UUID) (*domain.Reminder, error)

	// Update saves changes to an existing reminder (e.g., retirement).
	// Returns ErrReminderNotFound if the reminder does not exist.
	// Returns validation errors if the reminder data is invalid.
	Update(ctx context.Context, reminder *domain.Reminder) error

	// Delete removes a reminder record entirely. Used for explicit
	// cancellation and replace-on-create; retired reminders are kept.
	// Returns ErrReminderNotFound if the reminder does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindActive retrieves all active reminders, used to re-arm trigger
	// sources after a process restart. Returns an empty slice if none exist.
	FindActive(ctx context.Context) ([]*domain.Reminder, error)

	// WithTx returns a new ReminderStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ReminderStore
}
