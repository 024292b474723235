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

// TagService provides tagging use cases: tag creation is implicit via
// TagNote, which ensures the named tag exists before attaching it.
type TagService interface {
	// TagNote attaches the named tag to the note, creating the tag if it
	// does not exist yet. Tag names are normalized to lowercase.
	TagNote(ctx context.Context, noteID uuid.UUID, name string) (*domain.Tag, error)

	// UntagNote detaches the tag from the note. No-op if the tag is not
	// attached; returns ErrNoteNotFound if the note does not exist.
	UntagNote(ctx context.Context, noteID, tagID uuid.UUID) error

	// ListTags returns all tags ordered by name.
	ListTags(ctx context.Context) ([]*domain.Tag, error)

	// ListNoteTags returns the tags attached to the given note.
	ListNoteTags(ctx context.Context, noteID uuid.UUID) ([]*domain.Tag, error)
}

// TagServiceError wraps errors from the tag service with context.
type TagServiceError struct {
	// Operation is the operation that failed (e.g., "tag_note")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TagServiceError.
func (e *TagServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tag service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("tag service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TagServiceError) Unwrap() error {
	return e.Err
}

// NewTagServiceError creates a new TagServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTagServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, store.ErrNoteNotFound) {
		return ErrNoteNotFound
	}
	if errors.Is(err, store.ErrTagNotFound) {
		return ErrTagNotFound
	}

	return &TagServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// tagServiceImpl implements the TagService interface
type tagServiceImpl struct {
	db        *sql.DB
	tagStore  store.TagStore
	noteStore store.NoteStore
	logger    *slog.Logger

	// runTx is injectable for tests
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewTagService creates a new TagService.
// It returns an error if any of the required dependencies are nil.
func NewTagService(
	db *sql.DB,
	tagStore store.TagStore,
	noteStore store.NoteStore,
	logger *slog.Logger,
) (TagService, error) {
	if db == nil {
		return nil, &TagServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if tagStore == nil {
		return nil, &TagServiceError{Operation: "create_service", Message: "tagStore cannot be nil"}
	}
	if noteStore == nil {
		return nil, &TagServiceError{Operation: "create_service", Message: "noteStore cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &tagServiceImpl{
		db:        db,
		tagStore:  tagStore,
		noteStore: noteStore,
		logger:    logger.With("component", "tag_service"),
		runTx:     store.RunInTransaction,
	}, nil
}

// TagNote implements TagService.TagNote.
func (s *tagServiceImpl) TagNote(ctx context.Context, noteID uuid.UUID, name string) (*domain.Tag, error) {
	var tag *domain.Tag

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTags := s.tagStore.WithTx(tx)
		txNotes := s.noteStore.WithTx(tx)

		if _, err := txNotes.GetByID(ctx, noteID); err != nil {
			return NewTagServiceError("tag_note", "failed to load note", err)
		}

		t, err := s.ensureTag(ctx, txTags, name)
		if err != nil {
			return err
		}

		if err := txTags.AttachToNote(ctx, noteID, t.ID); err != nil {
			return NewTagServiceError("tag_note", "failed to attach tag", err)
		}

		tag = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("note tagged", "note_id", noteID, "tag", tag.Name)
	return tag, nil
}

// ensureTag looks the tag up by normalized name, creating it on first use.
// A concurrent create losing the unique-name race falls back to the lookup.
func (s *tagServiceImpl) ensureTag(ctx context.Context, tags store.TagStore, name string) (*domain.Tag, error) {
	tag, err := domain.NewTag(name)
	if err != nil {
		return nil, NewTagServiceError("tag_note", "invalid tag", err)
	}

	existing, err := tags.GetByName(ctx, tag.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, NewTagServiceError("tag_note", "failed to look up tag", err)
	}

	if err := tags.Create(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagNameExists) {
			return tags.GetByName(ctx, tag.Name)
		}
		return nil, NewTagServiceError("tag_note", "failed to create tag", err)
	}

	return tag, nil
}

// UntagNote implements TagService.UntagNote.
func (s *tagServiceImpl) UntagNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	if _, err := s.noteStore.GetByID(ctx, noteID); err != nil {
		return NewTagServiceError("untag_note", "failed to load note", err)
	}

	if err := s.tagStore.DetachFromNote(ctx, noteID, tagID); err != nil {
		return NewTagServiceError("untag_note", "failed to detach tag", err)
	}

	return nil
}

// ListTags implements TagService.ListTags.
func (s *tagServiceImpl) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.tagStore.List(ctx)
	if err != nil {
		return nil, NewTagServiceError("list_tags", "failed to list tags", err)
	}
	return tags, nil
}

// ListNoteTags implements TagService.ListNoteTags.
func (s *tagServiceImpl) ListNoteTags(ctx context.Context, noteID uuid.UUID) ([]*domain.Tag, error) {
	if _, err := s.noteStore.GetByID(ctx, noteID); err != nil {
		return nil, NewTagServiceError("list_note_tags", "failed to load note", err)
	}

	tags, err := s.tagStore.ListForNote(ctx, noteID)
	if err != nil {
		return nil, NewTagServiceError("list_note_tags", "failed to list note tags", err)
	}
	return tags, nil
}
