package store

import (
	"context"
	"database/sql"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/google/uuid"
)

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag to the store.
	// Returns ErrTagNameExists if a tag with the same name already exists.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByName retrieves a tag by its (lowercased) name.
	// Returns ErrTagNotFound if the tag does not exist.
	GetByName(ctx context.Context, name string) (*domain.Tag, error)

	// List retrieves all tags ordered by name.
	List(ctx context.Context) ([]*domain.Tag, error)

	// ListForNote retrieves the tags attached to the given note, ordered by name.
	ListForNote(ctx context.Context, noteID uuid.UUID) ([]*domain.Tag, error)

	// AttachToNote links a tag to a note. Attaching an already-attached
	// tag is a no-op.
	AttachToNote(ctx context.Context, noteID, tagID uuid.UUID) error

	// DetachFromNote unlinks a tag from a note. Detaching a tag that is
	// not attached is a no-op.
	DetachFromNote(ctx context.Context, noteID, tagID uuid.UUID) error

	// WithTx returns a new TagStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TagStore
}
