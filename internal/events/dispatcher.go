package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrUntypedEvent is returned when an event carries no type.
var ErrUntypedEvent = errors.New("event type required")

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans ticket lifecycle events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	SubscribeAll(handler EventHandler)
}

type inMemoryDispatcher struct {
	mu       sync.RWMutex
	byType   map[EventType][]EventHandler
	wildcard []EventHandler
	logger   *zap.Logger
}

// NewInMemoryDispatcher returns a synchronous dispatcher. Handler failures are
// logged and never reach the publisher, so a broken sink cannot fail a ticket
// write. A nil logger discards them.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inMemoryDispatcher{
		byType: make(map[EventType][]EventHandler),
		logger: logger,
	}
}

func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	if event.Type == "" {
		return ErrUntypedEvent
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, handler := range d.handlersFor(event.Type) {
		if err := handler(ctx, event); err != nil {
			d.logger.Warn("event handler failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Int64("ticket_id", event.TicketID),
				zap.Error(err))
		}
	}
	return nil
}

// handlersFor snapshots typed handlers followed by wildcard ones.
func (d *inMemoryDispatcher) handlersFor(t EventType) []EventHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]EventHandler, 0, len(d.byType[t])+len(d.wildcard))
	out = append(out, d.byType[t]...)
	return append(out, d.wildcard...)
}

func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	d.byType[eventType] = append(d.byType[eventType], handler)
	d.mu.Unlock()
}

func (d *inMemoryDispatcher) SubscribeAll(handler EventHandler) {
	d.mu.Lock()
	d.wildcard = append(d.wildcard, handler)
	d.mu.Unlock()
}
