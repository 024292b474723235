package trigger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchornotes/anchornotes/internal/events"
)

func TestTimeSourceSchedule(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewTimeSource(emitter, slog.Default())
	defer source.Close()

	reminderID := uuid.New()
	require.NoError(t, source.Schedule(context.Background(), reminderID, time.Now().Add(20*time.Millisecond)))

	event, ok := emitter.waitForFire(2 * time.Second)
	require.True(t, ok, "expected a fire event")
	assert.Equal(t, reminderID, event.ReminderID)
	assert.Equal(t, events.FireSourceTime, event.Source)

	// One-shot: the timer is gone after firing.
	source.mu.Lock()
	assert.Empty(t, source.timers)
	source.mu.Unlock()
}

func TestTimeSourcePastDatedDropped(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewTimeSource(emitter, slog.Default())
	defer source.Close()

	require.NoError(t, source.Schedule(context.Background(), uuid.New(), time.Now().Add(-time.Minute)))

	_, ok := emitter.waitForFire(50 * time.Millisecond)
	assert.False(t, ok, "past-dated schedule must not fire")
	assert.Equal(t, 0, emitter.count())
}

func TestTimeSourceCancel(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewTimeSource(emitter, slog.Default())
	defer source.Close()

	reminderID := uuid.New()
	require.NoError(t, source.Schedule(context.Background(), reminderID, time.Now().Add(30*time.Millisecond)))
	require.NoError(t, source.Cancel(context.Background(), reminderID))

	_, ok := emitter.waitForFire(100 * time.Millisecond)
	assert.False(t, ok, "cancelled schedule must not fire")
}

func TestTimeSourceCancelUnknown(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewTimeSource(emitter, slog.Default())
	defer source.Close()

	require.NoError(t, source.Cancel(context.Background(), uuid.New()))
}

func TestTimeSourceReplaceSchedule(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewTimeSource(emitter, slog.Default())
	defer source.Close()

	reminderID := uuid.New()
	ctx := context.Background()
	require.NoError(t, source.Schedule(ctx, reminderID, time.Now().Add(30*time.Millisecond)))
	require.NoError(t, source.Schedule(ctx, reminderID, time.Now().Add(60*time.Millisecond)))

	_, ok := emitter.waitForFire(2 * time.Second)
	require.True(t, ok)

	// The replaced timer must not fire a second time.
	_, ok = emitter.waitForFire(100 * time.Millisecond)
	assert.False(t, ok, "expected exactly one fire after replacement")
}

func TestTimeSourceClose(t *testing.T) {
	emitter := newCaptureEmitter()
	source := NewTimeSource(emitter, slog.Default())

	require.NoError(t, source.Schedule(context.Background(), uuid.New(), time.Now().Add(30*time.Millisecond)))
	source.Close()

	_, ok := emitter.waitForFire(100 * time.Millisecond)
	assert.False(t, ok, "timers must not fire after Close")

	// Schedules after Close are dropped.
	require.NoError(t, source.Schedule(context.Background(), uuid.New(), time.Now().Add(10*time.Millisecond)))
	_, ok = emitter.waitForFire(100 * time.Millisecond)
	assert.False(t, ok)
}
