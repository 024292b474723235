package trigger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/anchornotes/anchornotes/internal/events"
	"github.com/google/uuid"
)

// TimeSource schedules one-shot wall-clock fires, one timer per reminder ID.
// Fires are emitted on the timer's own goroutine through the fire emitter;
// the core must therefore be safe to call from that context.
type TimeSource struct {
	emitter events.FireEmitter
	logger  *slog.Logger

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
	closed bool

	// now is injectable for tests
	now func() time.Time
}

// NewTimeSource creates a TimeSource delivering fires through the given emitter.
func NewTimeSource(emitter events.FireEmitter, logger *slog.Logger) *TimeSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimeSource{
		emitter: emitter,
		logger:  logger.With("component", "time_source"),
		timers:  make(map[uuid.UUID]*time.Timer),
		now:     time.Now,
	}
}

// Ensure TimeSource implements TimeScheduler
var _ TimeScheduler = (*TimeSource)(nil)

// Schedule arranges a single fire for reminderID at triggerAt, replacing any
// prior schedule for the same ID. Past-dated instants are dropped without
// error; the caller is expected to pick sane values.
func (s *TimeSource) Schedule(ctx context.Context, reminderID uuid.UUID, triggerAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	// Replace any existing schedule for this reminder.
	if existing, ok := s.timers[reminderID]; ok {
		existing.Stop()
		delete(s.timers, reminderID)
	}

	delay := triggerAt.Sub(s.now())
	if delay <= 0 {
		s.logger.Debug("dropping past-dated schedule",
			"reminder_id", reminderID,
			"trigger_at", triggerAt)
		return nil
	}

	s.timers[reminderID] = time.AfterFunc(delay, func() {
		s.fire(reminderID)
	})

	s.logger.Debug("scheduled time reminder",
		"reminder_id", reminderID,
		"trigger_at", triggerAt,
		"delay", delay)
	return nil
}

// Cancel removes any pending schedule for reminderID. No-op if none exists.
func (s *TimeSource) Cancel(ctx context.Context, reminderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[reminderID]; ok {
		timer.Stop()
		delete(s.timers, reminderID)
		s.logger.Debug("cancelled time reminder schedule", "reminder_id", reminderID)
	}
	return nil
}

// Close stops all pending timers. Schedule calls after Close are dropped.
func (s *TimeSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// fire runs on the timer goroutine when a schedule elapses.
func (s *TimeSource) fire(reminderID uuid.UUID) {
	s.mu.Lock()
	delete(s.timers, reminderID)
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return
	}

	event := events.NewFireEvent(reminderID, events.FireSourceTime)
	if err := s.emitter.EmitFire(context.Background(), event); err != nil {
		s.logger.Error("failed to dispatch time fire",
			"error", err,
			"reminder_id", reminderID,
			"event_id", event.ID)
	}
}
