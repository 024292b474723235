package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	received []*FireEvent
	err      error
}

func (h *recordingHandler) HandleFireEvent(ctx context.Context, event *FireEvent) error {
	h.received = append(h.received, event)
	return h.err
}

func TestEmitFireDispatchesToAllHandlers(t *testing.T) {
	emitter := NewInMemoryFireEmitter(slog.Default())
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := NewFireEvent(uuid.New(), FireSourceTime)
	require.NoError(t, emitter.EmitFire(context.Background(), event))

	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	assert.Equal(t, event.ID, first.received[0].ID)
}

func TestEmitFireNoHandlers(t *testing.T) {
	emitter := NewInMemoryFireEmitter(slog.Default())

	err := emitter.EmitFire(context.Background(), NewFireEvent(uuid.New(), FireSourceRegion))
	assert.NoError(t, err)
}

func TestEmitFireHandlerErrorDoesNotStopDispatch(t *testing.T) {
	emitter := NewInMemoryFireEmitter(slog.Default())
	failing := &recordingHandler{err: errors.New("handler broke")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	err := emitter.EmitFire(context.Background(), NewFireEvent(uuid.New(), FireSourceTime))

	assert.EqualError(t, err, "handler broke")
	assert.Len(t, healthy.received, 1)
}

func TestNewFireEvent(t *testing.T) {
	reminderID := uuid.New()
	event := NewFireEvent(reminderID, FireSourceRegion)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, reminderID, event.ReminderID)
	assert.Equal(t, FireSourceRegion, event.Source)
	assert.False(t, event.OccurredAt.IsZero())
}
