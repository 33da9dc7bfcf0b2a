package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/events"
)

// EventSink forwards events outside the process.
type EventSink interface {
	Handle(ctx context.Context, event events.Event) error
}

// NotificationService reacts to ticket lifecycle events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sinks      []EventSink
}

// NewNotificationService creates the service. Nil sinks are skipped.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, sinks ...EventSink) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &NotificationService{dispatcher: dispatcher, logger: logger}
	for _, sink := range sinks {
		if sink != nil {
			n.sinks = append(n.sinks, sink)
		}
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketEmailSent, n.handleTicketEmailSent)
	for _, sink := range n.sinks {
		n.dispatcher.SubscribeAll(sink.Handle)
	}
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketEmailSent(_ context.Context, event events.Event) error {
	n.logger.Debug("TicketEmailSent", zap.Int64("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}
