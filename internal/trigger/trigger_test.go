package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/anchornotes/anchornotes/internal/events"
	"github.com/google/uuid"
)

// captureEmitter collects emitted fire events for inspection.
type captureEmitter struct {
	mu     sync.Mutex
	events []*events.FireEvent
	ch     chan *events.FireEvent
}

var _ events.FireEmitter = (*captureEmitter)(nil)

func newCaptureEmitter() *captureEmitter {
	return &captureEmitter{ch: make(chan *events.FireEvent, 16)}
}

func (e *captureEmitter) EmitFire(ctx context.Context, event *events.FireEvent) error {
	e.mu.Lock()
	e.events = append(e.events, event)
	e.mu.Unlock()
	e.ch <- event
	return nil
}

func (e *captureEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

func (e *captureEmitter) firedIDs() []uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(e.events))
	for _, event := range e.events {
		ids = append(ids, event.ReminderID)
	}
	return ids
}

// waitForFire blocks until an event arrives or the timeout elapses.
func (e *captureEmitter) waitForFire(timeout time.Duration) (*events.FireEvent, bool) {
	select {
	case event := <-e.ch:
		return event, true
	case <-time.After(timeout):
		return nil, false
	}
}
