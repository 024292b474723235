package store

import (
	"context"
	"database/sql"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/google/uuid"
)

// NoteStore defines the interface for note data persistence.
type NoteStore interface {
	// Create saves a new note to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Note if data is invalid.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// Update saves changes to an existing note.
	// Returns ErrNoteNotFound if the note does not exist.
	// Returns validation errors if the note data is invalid.
	Update(ctx context.Context, note *domain.Note) error

	// UpdateReminderRef sets or clears the note's reminder back-reference.
	// A nil reminderID clears the reference.
	// Returns ErrNoteNotFound if the note does not exist.
	UpdateReminderRef(ctx context.Context, noteID uuid.UUID, reminderID *uuid.UUID) error

	// Delete removes a note from the store.
	// Returns ErrNoteNotFound if the note does not exist.
	// The caller is responsible for cancelling any active reminder first.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves notes ordered by most recently updated.
	// Can limit the number of results and paginate through offset.
	List(ctx context.Context, limit, offset int) ([]*domain.Note, error)

	// WithTx returns a new NoteStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) NoteStore
}
