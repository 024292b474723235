package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/anchornotes/anchornotes/internal/platform/logger"
	"github.com/anchornotes/anchornotes/internal/store"
	"github.com/google/uuid"
)

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the TagStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

// Ensure PostgresTagStore implements store.TagStore interface
var _ store.TagStore = (*PostgresTagStore)(nil)

// WithTx implements store.TagStore.WithTx
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TagStore.Create
// Returns store.ErrTagNameExists if a tag with the same name already exists.
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := tag.Validate(); err != nil {
		log.Warn("tag validation failed during create",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return err
	}

	query := `INSERT INTO tags (id, name) VALUES ($1, $2)`

	_, err := s.db.ExecContext(ctx, query, tag.ID, tag.Name)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("tag name already exists", slog.String("name", tag.Name))
			return store.ErrTagNameExists
		}
		log.Error("failed to create tag",
			slog.String("error", err.Error()),
			slog.String("tag_id", tag.ID.String()))
		return MapError(err)
	}

	log.Info("tag created successfully",
		slog.String("tag_id", tag.ID.String()),
		slog.String("name", tag.Name))
	return nil
}

// GetByName implements store.TagStore.GetByName
// Returns store.ErrTagNotFound if the tag does not exist.
func (s *PostgresTagStore) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, name FROM tags WHERE name = $1`

	var tag domain.Tag
	err := s.db.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		log.Error("failed to get tag by name",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, MapError(err)
	}

	return &tag, nil
}

// List implements store.TagStore.List
func (s *PostgresTagStore) List(ctx context.Context) ([]*domain.Tag, error) {
	return s.queryTags(ctx, `SELECT id, name FROM tags ORDER BY name`)
}

// ListForNote implements store.TagStore.ListForNote
func (s *PostgresTagStore) ListForNote(ctx context.Context, noteID uuid.UUID) ([]*domain.Tag, error) {
	query := `
		SELECT t.id, t.name
		FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = $1
		ORDER BY t.name
	`
	return s.queryTags(ctx, query, noteID)
}

// AttachToNote implements store.TagStore.AttachToNote
// Attaching an already-attached tag is a no-op.
func (s *PostgresTagStore) AttachToNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO note_tags (note_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, noteID, tagID)
	if err != nil {
		log.Error("failed to attach tag to note",
			slog.String("error", err.Error()),
			slog.String("note_id", noteID.String()),
			slog.String("tag_id", tagID.String()))
		return MapError(err)
	}

	return nil
}

// DetachFromNote implements store.TagStore.DetachFromNote
// Detaching a tag that is not attached is a no-op.
func (s *PostgresTagStore) DetachFromNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM note_tags WHERE note_id = $1 AND tag_id = $2`

	_, err := s.db.ExecContext(ctx, query, noteID, tagID)
	if err != nil {
		log.Error("failed to detach tag from note",
			slog.String("error", err.Error()),
			slog.String("note_id", noteID.String()),
			slog.String("tag_id", tagID.String()))
		return MapError(err)
	}

	return nil
}

// queryTags runs a query returning (id, name) rows and maps them to tags.
func (s *PostgresTagStore) queryTags(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tags", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tags []*domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			log.Error("failed to scan tag row", slog.String("error", err.Error()))
			return nil, err
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}
