package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/anchornotes/anchornotes/internal/store"
	"github.com/google/uuid"
)

// NoteService provides note CRUD use cases.
type NoteService interface {
	// CreateNote creates and persists a new note.
	CreateNote(ctx context.Context, title, content string) (*domain.Note, error)

	// GetNote retrieves a note by its ID.
	GetNote(ctx context.Context, noteID uuid.UUID) (*domain.Note, error)

	// UpdateNote replaces the note's title and content.
	UpdateNote(ctx context.Context, noteID uuid.UUID, title, content string) (*domain.Note, error)

	// DeleteNote removes the note. Any active reminder is cancelled first so
	// no trigger registration outlives its note.
	DeleteNote(ctx context.Context, noteID uuid.UUID) error

	// ListNotes returns a page of notes ordered by most recently updated.
	ListNotes(ctx context.Context, limit, offset int) ([]*domain.Note, error)
}

// NoteServiceError wraps errors from the note service with context.
type NoteServiceError struct {
	// Operation is the operation that failed (e.g., "create_note", "delete_note")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for NoteServiceError.
func (e *NoteServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("note service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("note service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *NoteServiceError) Unwrap() error {
	return e.Err
}

// NewNoteServiceError creates a new NoteServiceError.
// It returns known sentinel errors directly without wrapping.
func NewNoteServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNoteNotFound) {
		return ErrNoteNotFound
	}
	if errors.Is(err, store.ErrNoteNotFound) {
		return ErrNoteNotFound
	}

	return &NoteServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// noteServiceImpl implements the NoteService interface
type noteServiceImpl struct {
	db        *sql.DB
	noteStore store.NoteStore
	reminders ReminderService
	logger    *slog.Logger

	// runTx is injectable for tests
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewNoteService creates a new NoteService.
// It returns an error if any of the required dependencies are nil.
func NewNoteService(
	db *sql.DB,
	noteStore store.NoteStore,
	reminders ReminderService,
	logger *slog.Logger,
) (NoteService, error) {
	if db == nil {
		return nil, &NoteServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if noteStore == nil {
		return nil, &NoteServiceError{Operation: "create_service", Message: "noteStore cannot be nil"}
	}
	if reminders == nil {
		return nil, &NoteServiceError{Operation: "create_service", Message: "reminders cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &noteServiceImpl{
		db:        db,
		noteStore: noteStore,
		reminders: reminders,
		logger:    logger.With("component", "note_service"),
		runTx:     store.RunInTransaction,
	}, nil
}

// CreateNote implements NoteService.CreateNote.
func (s *noteServiceImpl) CreateNote(ctx context.Context, title, content string) (*domain.Note, error) {
	note, err := domain.NewNote(title, content)
	if err != nil {
		return nil, NewNoteServiceError("create_note", "invalid note", err)
	}

	if err := s.noteStore.Create(ctx, note); err != nil {
		return nil, NewNoteServiceError("create_note", "failed to save note", err)
	}

	s.logger.Info("note created", "note_id", note.ID)
	return note, nil
}

// GetNote implements NoteService.GetNote.
func (s *noteServiceImpl) GetNote(ctx context.Context, noteID uuid.UUID) (*domain.Note, error) {
	note, err := s.noteStore.GetByID(ctx, noteID)
	if err != nil {
		return nil, NewNoteServiceError("get_note", "failed to load note", err)
	}
	return note, nil
}

// UpdateNote implements NoteService.UpdateNote.
func (s *noteServiceImpl) UpdateNote(
	ctx context.Context,
	noteID uuid.UUID,
	title, content string,
) (*domain.Note, error) {
	var note *domain.Note

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txNotes := s.noteStore.WithTx(tx)

		n, err := txNotes.GetByID(ctx, noteID)
		if err != nil {
			return NewNoteServiceError("update_note", "failed to load note", err)
		}

		if err := n.Update(title, content); err != nil {
			return NewNoteServiceError("update_note", "invalid note", err)
		}

		if err := txNotes.Update(ctx, n); err != nil {
			return NewNoteServiceError("update_note", "failed to save note", err)
		}

		note = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	return note, nil
}

// DeleteNote implements NoteService.DeleteNote.
func (s *noteServiceImpl) DeleteNote(ctx context.Context, noteID uuid.UUID) error {
	// Cancel any active reminder first; this tears down the trigger
	// registration before the note row (and its reminders) disappear.
	if err := s.reminders.CancelActive(ctx, noteID); err != nil {
		return NewNoteServiceError("delete_note", "failed to cancel active reminder", err)
	}

	if err := s.noteStore.Delete(ctx, noteID); err != nil {
		return NewNoteServiceError("delete_note", "failed to delete note", err)
	}

	s.logger.Info("note deleted", "note_id", noteID)
	return nil
}

// ListNotes implements NoteService.ListNotes.
func (s *noteServiceImpl) ListNotes(ctx context.Context, limit, offset int) ([]*domain.Note, error) {
	notes, err := s.noteStore.List(ctx, limit, offset)
	if err != nil {
		return nil, NewNoteServiceError("list_notes", "failed to list notes", err)
	}
	return notes, nil
}
