package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anchornotes/anchornotes/internal/domain"
	"github.com/anchornotes/anchornotes/internal/events"
	"github.com/anchornotes/anchornotes/internal/store"
	"github.com/anchornotes/anchornotes/internal/trigger"
	"github.com/google/uuid"
)

// ReminderService is the reminder lifecycle core. It enforces the
// one-active-reminder-per-note rule, creates/cancels/retires reminder
// records, and drives the two trigger sources.
//
// Create and cancel calls arrive synchronously from the API layer; fire
// events arrive asynchronously from the trigger sources via HandleFire.
// The two paths are serialized per note by a keyed lock table, and every
// Reminder/Note read-modify-write runs in a single database transaction.
type ReminderService interface {
	// CreateTimeReminder replaces any active reminder for the note with a
	// new wall-clock reminder and schedules it. Returns the persisted
	// reminder; if trigger registration fails, the reminder is returned
	// together with an error wrapping ErrTriggerRegistrationFailed.
	CreateTimeReminder(ctx context.Context, noteID uuid.UUID, triggerTime time.Time) (*domain.Reminder, error)

	// CreateLocationReminder is the geofence counterpart of
	// CreateTimeReminder. The reminder fires on the first enter-or-exit
	// transition of the region, whichever comes first.
	CreateLocationReminder(ctx context.Context, noteID uuid.UUID, lat, lng, radiusMeters float64) (*domain.Reminder, error)

	// CanCreate reports whether the note currently has no active reminder.
	// The kind parameter is accepted for forward-compatibility; any active
	// reminder of either kind blocks creation.
	CanCreate(ctx context.Context, noteID uuid.UUID, kind domain.ReminderKind) (bool, error)

	// CancelActive unregisters, then deletes, the note's active reminder
	// and clears the note's back-reference. No-op if none exists.
	CancelActive(ctx context.Context, noteID uuid.UUID) error

	// GetActive returns the note's active reminder, or nil if none exists.
	GetActive(ctx context.Context, noteID uuid.UUID) (*domain.Reminder, error)

	// HandleFire is the single entry point for trigger-source fire events.
	// It is idempotent against repeat delivery: fires for retired or
	// deleted reminder IDs are silently ignored.
	HandleFire(ctx context.Context, reminderID uuid.UUID) error

	// RearmActive re-establishes trigger registrations for every active
	// reminder after a process restart. Time reminders whose trigger
	// instant passed while the process was down fire immediately through
	// the normal dispatch path.
	RearmActive(ctx context.Context) error
}

// ReminderServiceError wraps errors from the reminder service with context.
type ReminderServiceError struct {
	// Operation is the operation that failed (e.g., "create_reminder", "handle_fire")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ReminderServiceError.
func (e *ReminderServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reminder service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("reminder service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ReminderServiceError) Unwrap() error {
	return e.Err
}

// NewReminderServiceError creates a new ReminderServiceError.
// It returns known sentinel errors directly without wrapping.
func NewReminderServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNoteNotFound) || errors.Is(err, ErrReminderNotFound) {
		return err
	}

	// Map store-level sentinels to service-level ones
	if errors.Is(err, store.ErrNoteNotFound) {
		return ErrNoteNotFound
	}

	return &ReminderServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// reminderServiceImpl implements the ReminderService interface
type reminderServiceImpl struct {
	db            *sql.DB
	noteStore     store.NoteStore
	reminderStore store.ReminderStore
	timeSource    trigger.TimeScheduler
	regionSource  trigger.RegionMonitor
	notifier      Notifier
	message       string
	locks         *noteLocks
	logger        *slog.Logger

	// now and runTx are injectable for tests
	now   func() time.Time
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewReminderService creates a new ReminderService.
// It returns an error if any of the required dependencies are nil.
func NewReminderService(
	db *sql.DB,
	noteStore store.NoteStore,
	reminderStore store.ReminderStore,
	timeSource trigger.TimeScheduler,
	regionSource trigger.RegionMonitor,
	notifier Notifier,
	message string,
	logger *slog.Logger,
) (ReminderService, error) {
	if db == nil {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if noteStore == nil {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "noteStore cannot be nil"}
	}
	if reminderStore == nil {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "reminderStore cannot be nil"}
	}
	if timeSource == nil {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "timeSource cannot be nil"}
	}
	if regionSource == nil {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "regionSource cannot be nil"}
	}
	if notifier == nil {
		return nil, &ReminderServiceError{Operation: "create_service", Message: "notifier cannot be nil"}
	}
	if message == "" {
		message = "You have a reminder for this note"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reminderServiceImpl{
		db:            db,
		noteStore:     noteStore,
		reminderStore: reminderStore,
		timeSource:    timeSource,
		regionSource:  regionSource,
		notifier:      notifier,
		message:       message,
		locks:         newNoteLocks(),
		logger:        logger.With("component", "reminder_service"),
		now:           time.Now,
		runTx:         store.RunInTransaction,
	}, nil
}

// Ensure reminderServiceImpl implements events.FireHandler
var _ events.FireHandler = (*reminderServiceImpl)(nil)

// HandleFireEvent implements events.FireHandler, routing both trigger
// sources to the single HandleFire entry point.
func (s *reminderServiceImpl) HandleFireEvent(ctx context.Context, event *events.FireEvent) error {
	s.logger.Debug("fire event received",
		"event_id", event.ID,
		"reminder_id", event.ReminderID,
		"source", event.Source)
	return s.HandleFire(ctx, event.ReminderID)
}

// CreateTimeReminder implements ReminderService.CreateTimeReminder.
func (s *reminderServiceImpl) CreateTimeReminder(
	ctx context.Context,
	noteID uuid.UUID,
	triggerTime time.Time,
) (*domain.Reminder, error) {
	reminder, err := domain.NewTimeReminder(noteID, triggerTime)
	if err != nil {
		return nil, NewReminderServiceError("create_time_reminder", "invalid reminder", err)
	}
	return s.createReminder(ctx, noteID, reminder)
}

// CreateLocationReminder implements ReminderService.CreateLocationReminder.
func (s *reminderServiceImpl) CreateLocationReminder(
	ctx context.Context,
	noteID uuid.UUID,
	lat, lng, radiusMeters float64,
) (*domain.Reminder, error) {
	reminder, err := domain.NewLocationReminder(noteID, lat, lng, radiusMeters)
	if err != nil {
		return nil, NewReminderServiceError("create_location_reminder", "invalid reminder", err)
	}
	return s.createReminder(ctx, noteID, reminder)
}

// createReminder atomically replaces any active reminder for the note with
// the given one, then establishes the trigger registration. The old
// registration is always torn down before the new one is established, so a
// replaced reminder can never fire.
func (s *reminderServiceImpl) createReminder(
	ctx context.Context,
	noteID uuid.UUID,
	reminder *domain.Reminder,
) (*domain.Reminder, error) {
	unlock := s.locks.lock(noteID)
	defer unlock()

	// Tear down the old registration first. The old record is deleted in
	// the transaction below; a stale fire that slipped through before the
	// teardown finds no record and is ignored.
	old, err := s.reminderStore.GetActiveByNoteID(ctx, noteID)
	if err != nil && !errors.Is(err, store.ErrReminderNotFound) {
		return nil, NewReminderServiceError("create_reminder", "failed to look up active reminder", err)
	}
	if old != nil {
		s.unregisterReminder(ctx, old)
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txNotes := s.noteStore.WithTx(tx)
		txReminders := s.reminderStore.WithTx(tx)

		// Re-check note existence inside the transaction.
		if _, err := txNotes.GetByID(ctx, noteID); err != nil {
			return NewReminderServiceError("create_reminder", "failed to load note", err)
		}

		if old != nil {
			// Replace-on-create: the old record is deleted outright, not retired.
			if err := txReminders.Delete(ctx, old.ID); err != nil &&
				!errors.Is(err, store.ErrReminderNotFound) {
				return NewReminderServiceError("create_reminder", "failed to delete replaced reminder", err)
			}
		}

		if err := txReminders.Create(ctx, reminder); err != nil {
			return NewReminderServiceError("create_reminder", "failed to save reminder", err)
		}

		if err := txNotes.UpdateReminderRef(ctx, noteID, &reminder.ID); err != nil {
			return NewReminderServiceError("create_reminder", "failed to set note reminder reference", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reminder created",
		"reminder_id", reminder.ID,
		"note_id", noteID,
		"kind", reminder.Kind,
		"replaced", old != nil)

	// Establish the trigger registration outside the transaction. A
	// registration failure leaves the record active but unregistered; the
	// reminder is still returned so the caller can surface the condition.
	if err := s.registerReminder(ctx, reminder); err != nil {
		s.logger.Warn("trigger registration failed, reminder left unregistered",
			"error", err,
			"reminder_id", reminder.ID,
			"note_id", noteID,
			"kind", reminder.Kind)
		return reminder, fmt.Errorf("%w: %v", ErrTriggerRegistrationFailed, err)
	}

	return reminder, nil
}

// CanCreate implements ReminderService.CanCreate. Any active reminder of
// either kind blocks creation, so kind is currently ignored.
func (s *reminderServiceImpl) CanCreate(
	ctx context.Context,
	noteID uuid.UUID,
	_ domain.ReminderKind,
) (bool, error) {
	reminder, err := s.GetActive(ctx, noteID)
	if err != nil {
		return false, err
	}
	return reminder == nil, nil
}

// GetActive implements ReminderService.GetActive.
func (s *reminderServiceImpl) GetActive(
	ctx context.Context,
	noteID uuid.UUID,
) (*domain.Reminder, error) {
	reminder, err := s.reminderStore.GetActiveByNoteID(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrReminderNotFound) {
			return nil, nil
		}
		return nil, NewReminderServiceError("get_active", "failed to look up active reminder", err)
	}
	return reminder, nil
}

// CancelActive implements ReminderService.CancelActive.
func (s *reminderServiceImpl) CancelActive(ctx context.Context, noteID uuid.UUID) error {
	unlock := s.locks.lock(noteID)
	defer unlock()

	reminder, err := s.reminderStore.GetActiveByNoteID(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrReminderNotFound) {
			// No active reminder: nothing to do, no store writes.
			return nil
		}
		return NewReminderServiceError("cancel_active", "failed to look up active reminder", err)
	}

	// Unregister before the record is removed so no dangling registration
	// can fire after the note is gone.
	s.unregisterReminder(ctx, reminder)

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txNotes := s.noteStore.WithTx(tx)
		txReminders := s.reminderStore.WithTx(tx)

		if err := txReminders.Delete(ctx, reminder.ID); err != nil &&
			!errors.Is(err, store.ErrReminderNotFound) {
			return NewReminderServiceError("cancel_active", "failed to delete reminder", err)
		}

		// Clear the note's back-reference, if the note still exists.
		if err := txNotes.UpdateReminderRef(ctx, noteID, nil); err != nil &&
			!errors.Is(err, store.ErrNoteNotFound) {
			return NewReminderServiceError("cancel_active", "failed to clear note reminder reference", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("reminder cancelled",
		"reminder_id", reminder.ID,
		"note_id", noteID,
		"kind", reminder.Kind)
	return nil
}

// HandleFire implements ReminderService.HandleFire.
//
// The note's back-reference is intentionally not cleared on retirement: it
// keeps pointing at the now-inactive reminder until the user cancels or
// creates a new one. Callers reading the reference must also check Active.
func (s *reminderServiceImpl) HandleFire(ctx context.Context, reminderID uuid.UUID) error {
	// Resolve the owning note first; the lock is keyed by note.
	stale, err := s.reminderStore.GetByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, store.ErrReminderNotFound) {
			// Cancelled or replaced before the event arrived.
			s.logger.Debug("ignoring fire for unknown reminder", "reminder_id", reminderID)
			return nil
		}
		return NewReminderServiceError("handle_fire", "failed to look up reminder", err)
	}

	unlock := s.locks.lock(stale.NoteID)
	defer unlock()

	var reminder *domain.Reminder
	var note *domain.Note

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txNotes := s.noteStore.WithTx(tx)
		txReminders := s.reminderStore.WithTx(tx)

		// Re-read under the lock; a concurrent cancel or duplicate fire
		// may have won the race.
		r, err := txReminders.GetByID(ctx, reminderID)
		if err != nil {
			if errors.Is(err, store.ErrReminderNotFound) {
				return nil
			}
			return NewReminderServiceError("handle_fire", "failed to re-read reminder", err)
		}
		if !r.Active {
			// Duplicate delivery of an already-retired reminder.
			return nil
		}

		if err := r.Retire(); err != nil {
			return NewReminderServiceError("handle_fire", "failed to retire reminder", err)
		}
		if err := txReminders.Update(ctx, r); err != nil {
			return NewReminderServiceError("handle_fire", "failed to persist retirement", err)
		}

		n, err := txNotes.GetByID(ctx, r.NoteID)
		if err != nil && !errors.Is(err, store.ErrNoteNotFound) {
			return NewReminderServiceError("handle_fire", "failed to load note", err)
		}

		reminder = r
		note = n
		return nil
	})
	if err != nil {
		return err
	}

	if reminder == nil {
		s.logger.Debug("ignoring duplicate or stale fire", "reminder_id", reminderID)
		return nil
	}

	// Defensive teardown: the registration usually self-consumed, but a
	// replaced schedule or redelivered event may have left one behind.
	s.unregisterReminder(ctx, reminder)

	s.logger.Info("reminder fired and retired",
		"reminder_id", reminder.ID,
		"note_id", reminder.NoteID,
		"kind", reminder.Kind)

	if note != nil {
		s.notifier.Notify(ctx, note.ID, note.Title, s.message)
	}

	return nil
}

// RearmActive implements ReminderService.RearmActive.
func (s *reminderServiceImpl) RearmActive(ctx context.Context) error {
	reminders, err := s.reminderStore.FindActive(ctx)
	if err != nil {
		return NewReminderServiceError("rearm_active", "failed to load active reminders", err)
	}

	var overdue []uuid.UUID
	for _, reminder := range reminders {
		switch reminder.Kind {
		case domain.ReminderKindTime:
			if reminder.TriggerTime != nil && !reminder.TriggerTime.After(s.now()) {
				overdue = append(overdue, reminder.ID)
				continue
			}
			if err := s.registerReminder(ctx, reminder); err != nil {
				s.logger.Warn("failed to re-arm time reminder",
					"error", err, "reminder_id", reminder.ID)
			}
		case domain.ReminderKindLocation:
			if err := s.registerReminder(ctx, reminder); err != nil {
				s.logger.Warn("failed to re-arm location reminder",
					"error", err, "reminder_id", reminder.ID)
			}
		}
	}

	s.logger.Info("re-armed active reminders",
		"total", len(reminders),
		"overdue", len(overdue))

	// Overdue time reminders fire now, through the normal dispatch path.
	for _, id := range overdue {
		if err := s.HandleFire(ctx, id); err != nil {
			s.logger.Error("failed to fire overdue reminder",
				"error", err, "reminder_id", id)
		}
	}

	return nil
}

// registerReminder establishes the trigger registration matching the
// reminder's kind, keyed by the reminder's ID.
func (s *reminderServiceImpl) registerReminder(ctx context.Context, reminder *domain.Reminder) error {
	switch reminder.Kind {
	case domain.ReminderKindTime:
		if reminder.TriggerTime == nil {
			return domain.ErrMissingTriggerTime
		}
		return s.timeSource.Schedule(ctx, reminder.ID, *reminder.TriggerTime)
	case domain.ReminderKindLocation:
		if reminder.Region == nil {
			return domain.ErrMissingRegion
		}
		return s.regionSource.Register(ctx, reminder.ID, *reminder.Region)
	default:
		return domain.ErrInvalidReminderKind
	}
}

// unregisterReminder tears down the trigger registration matching the
// reminder's kind. Failures are logged, never propagated: both sources
// treat unknown IDs as a no-op, and a leftover registration resolves
// itself through HandleFire's idempotence.
func (s *reminderServiceImpl) unregisterReminder(ctx context.Context, reminder *domain.Reminder) {
	var err error
	switch reminder.Kind {
	case domain.ReminderKindTime:
		err = s.timeSource.Cancel(ctx, reminder.ID)
	case domain.ReminderKindLocation:
		err = s.regionSource.Unregister(ctx, reminder.ID)
	}
	if err != nil {
		s.logger.Warn("failed to unregister reminder trigger",
			"error", err,
			"reminder_id", reminder.ID,
			"kind", reminder.Kind)
	}
}
