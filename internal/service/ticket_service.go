package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/events"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/repository"
	apperrors "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/pkg/util"
)

// TicketService coordinates ticket persistence and lifecycle events for both the
// conversation core and the staff desk.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketListFilter describes desk listing filters.
type TicketListFilter struct {
	Status    *domain.TicketStatus
	SessionID *string
	Limit     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create persists ticket, assigning its id, and announces it.
func (s *TicketService) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.SessionActor(ticket.SessionID),
		Payload: events.TicketCreatedPayload{
			Source:         ticket.Source,
			Priority:       ticket.Priority,
			SentimentLabel: ticket.SentimentLabel,
			ProblemSummary: stringPreview(ticket.ProblemSummary, 120),
		},
	})
	return nil
}

// MarkEmailSent stamps the notification time on ticket.
func (s *TicketService) MarkEmailSent(ctx context.Context, ticket *domain.Ticket, at time.Time) error {
	if err := s.tickets.MarkEmailSent(ctx, ticket.ID, at); err != nil {
		return err
	}
	ticket.EmailSentAt = &at
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketEmailSent,
		TicketID: ticket.ID,
		Actor:    events.SessionActor(ticket.SessionID),
		Payload:  events.TicketEmailSentPayload{SentAt: at},
	})
	return nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketError(err, id)
	}
	return ticket, nil
}

// ListTickets returns tickets newest first.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *filter.Status})
	}
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		Status:    filter.Status,
		SessionID: filter.SessionID,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// UpdateStatus moves a ticket through its lifecycle on behalf of a staff member.
func (s *TicketService) UpdateStatus(ctx context.Context, staffID string, id int64, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapTicketError(err, id)
	}
	if current.Status == newStatus {
		return current, nil
	}
	if !isValidTransition(current.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": current.Status,
			"to":   newStatus,
		})
	}

	updated, err := s.tickets.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		return nil, mapTicketError(err, id)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: id,
		Actor:    events.StaffActor(staffID),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: newStatus,
		},
	})
	return updated, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func mapTicketError(err error, id int64) error {
	if errors.Is(err, repository.ErrTicketNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return err
}

func stringPreview(body string, max int) string {
	r := []rune(body)
	if len(r) <= max {
		return body
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusOpen, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusInProgress, domain.TicketStatusClosed, domain.TicketStatusOpen},
	domain.TicketStatusClosed:     {domain.TicketStatusOpen},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
