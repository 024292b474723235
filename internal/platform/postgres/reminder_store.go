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

// PostgresReminderStore implements the store.ReminderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderStore creates a new PostgreSQL implementation of the ReminderStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReminderStore(db store.DBTX, logger *slog.Logger) *PostgresReminderStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", "reminder_store")),
	}
}

// Ensure PostgresReminderStore implements store.ReminderStore interface
var _ store.ReminderStore = (*PostgresReminderStore)(nil)

// WithTx implements store.ReminderStore.WithTx
func (s *PostgresReminderStore) WithTx(tx *sql.Tx) store.ReminderStore {
	return &PostgresReminderStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReminderStore.Create
// Returns store.ErrActiveReminderExists if the note already has an active
// reminder (unique partial index violation), and store.ErrInvalidEntity if
// the owning note does not exist (foreign key violation).
func (s *PostgresReminderStore) Create(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reminder.Validate(); err != nil {
		log.Warn("reminder validation failed during create",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()))
		return err
	}

	query := `
		INSERT INTO reminders (
			id, note_id, kind, trigger_time,
			latitude, longitude, radius_meters,
			active, retired_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var lat, lng, radius *float64
	if reminder.Region != nil {
		lat = &reminder.Region.Latitude
		lng = &reminder.Region.Longitude
		radius = &reminder.Region.RadiusMeters
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		reminder.ID,
		reminder.NoteID,
		reminder.Kind,
		reminder.TriggerTime,
		lat,
		lng,
		radius,
		reminder.Active,
		reminder.RetiredAt,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("active reminder already exists for note",
				slog.String("reminder_id", reminder.ID.String()),
				slog.String("note_id", reminder.NoteID.String()))
			return store.ErrActiveReminderExists
		}

		log.Error("failed to create reminder",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()),
			slog.String("note_id", reminder.NoteID.String()))
		return MapError(err)
	}

	log.Info("reminder created successfully",
		slog.String("reminder_id", reminder.ID.String()),
		slog.String("note_id", reminder.NoteID.String()),
		slog.String("kind", string(reminder.Kind)))
	return nil
}

// GetByID implements store.ReminderStore.GetByID
// Returns store.ErrReminderNotFound if the reminder does not exist.
func (s *PostgresReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := reminderSelect + ` WHERE id = $1`

	reminder, err := scanReminder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("reminder not found", slog.String("reminder_id", id.String()))
			return nil, store.ErrReminderNotFound
		}
		log.Error("failed to get reminder by ID",
			slog.String("error", err.Error()),
			slog.String("reminder_id", id.String()))
		return nil, MapError(err)
	}

	return reminder, nil
}

// GetActiveByNoteID implements store.ReminderStore.GetActiveByNoteID
// Returns store.ErrReminderNotFound if the note has no active reminder.
func (s *PostgresReminderStore) GetActiveByNoteID(
	ctx context.Context,
	noteID uuid.UUID,
) (*domain.Reminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := reminderSelect + ` WHERE note_id = $1 AND active`

	reminder, err := scanReminder(s.db.QueryRowContext(ctx, query, noteID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no active reminder for note",
				slog.String("note_id", noteID.String()))
			return nil, store.ErrReminderNotFound
		}
		log.Error("failed to get active reminder for note",
			slog.String("error", err.Error()),
			slog.String("note_id", noteID.String()))
		return nil, MapError(err)
	}

	return reminder, nil
}

// Update implements store.ReminderStore.Update
// Returns store.ErrReminderNotFound if the reminder does not exist.
func (s *PostgresReminderStore) Update(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reminder.Validate(); err != nil {
		log.Warn("reminder validation failed during update",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()))
		return err
	}

	query := `
		UPDATE reminders
		SET active = $1, retired_at = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		reminder.Active,
		reminder.RetiredAt,
		reminder.UpdatedAt,
		reminder.ID,
	)

	if err != nil {
		log.Error("failed to update reminder",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("reminder_id", reminder.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("reminder not found for update",
			slog.String("reminder_id", reminder.ID.String()))
		return store.ErrReminderNotFound
	}

	log.Info("reminder updated successfully",
		slog.String("reminder_id", reminder.ID.String()),
		slog.Bool("active", reminder.Active))
	return nil
}

// Delete implements store.ReminderStore.Delete
// Returns store.ErrReminderNotFound if the reminder does not exist.
func (s *PostgresReminderStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM reminders WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete reminder",
			slog.String("error", err.Error()),
			slog.String("reminder_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		log.Debug("reminder not found for delete",
			slog.String("reminder_id", id.String()))
		return store.ErrReminderNotFound
	}

	log.Info("reminder deleted successfully",
		slog.String("reminder_id", id.String()))
	return nil
}

// FindActive implements store.ReminderStore.FindActive
// Returns an empty slice if no active reminders exist.
func (s *PostgresReminderStore) FindActive(ctx context.Context) ([]*domain.Reminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := reminderSelect + ` WHERE active ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query active reminders",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var reminders []*domain.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			log.Error("failed to scan reminder row",
				slog.String("error", err.Error()))
			return nil, err
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no reminders found
	if reminders == nil {
		reminders = []*domain.Reminder{}
	}

	log.Debug("found active reminders", slog.Int("count", len(reminders)))
	return reminders, nil
}

// reminderSelect is the shared column list for reminder queries.
const reminderSelect = `
	SELECT id, note_id, kind, trigger_time,
	       latitude, longitude, radius_meters,
	       active, retired_at, created_at, updated_at
	FROM reminders
`

// scanReminder maps a database row onto a domain.Reminder, rebuilding the
// kind-specific fields from their nullable columns.
func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var reminder domain.Reminder
	var kind string
	var triggerTime sql.NullTime
	var lat, lng, radius sql.NullFloat64
	var retiredAt sql.NullTime

	err := row.Scan(
		&reminder.ID,
		&reminder.NoteID,
		&kind,
		&triggerTime,
		&lat,
		&lng,
		&radius,
		&reminder.Active,
		&retiredAt,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	reminder.Kind = domain.ReminderKind(kind)
	if triggerTime.Valid {
		t := triggerTime.Time
		reminder.TriggerTime = &t
	}
	if lat.Valid && lng.Valid && radius.Valid {
		reminder.Region = &domain.Region{
			Latitude:     lat.Float64,
			Longitude:    lng.Float64,
			RadiusMeters: radius.Float64,
		}
	}
	if retiredAt.Valid {
		t := retiredAt.Time
		reminder.RetiredAt = &t
	}

	return &reminder, nil
}
