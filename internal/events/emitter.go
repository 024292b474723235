package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryFireEmitter is a simple implementation of the FireEmitter interface
// that stores registered handlers in memory and dispatches events to them.
type InMemoryFireEmitter struct {
	handlers []FireHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryFireEmitter creates a new instance of InMemoryFireEmitter.
func NewInMemoryFireEmitter(logger *slog.Logger) *InMemoryFireEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryFireEmitter{
		handlers: make([]FireHandler, 0),
		logger:   logger.With("component", "fire_emitter"),
	}
}

// RegisterHandler adds a new fire handler to receive events.
func (e *InMemoryFireEmitter) RegisterHandler(handler FireHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new fire handler", "handler_count", len(e.handlers))
}

// EmitFire publishes the given event to all registered handlers.
// If any handler returns an error, the event will still be sent to all other
// handlers, and the first error encountered will be returned.
func (e *InMemoryFireEmitter) EmitFire(ctx context.Context, event *FireEvent) error {
	e.mu.RLock()
	handlers := make([]FireHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting fire event",
		"event_id", event.ID,
		"reminder_id", event.ReminderID,
		"source", event.Source,
		"handler_count", len(handlers))

	if len(handlers) == 0 {
		e.logger.Warn("no handlers registered for fire event",
			"event_id", event.ID,
			"reminder_id", event.ReminderID)
		return nil
	}

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleFireEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process fire event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"reminder_id", event.ReminderID,
				"source", event.Source)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
