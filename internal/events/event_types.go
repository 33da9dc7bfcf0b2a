package events

import (
	"time"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketEmailSent     EventType = "ticket_email_sent"
)

// ActorType identifies who caused an event.
type ActorType string

const (
	ActorSession ActorType = "session"
	ActorStaff   ActorType = "staff"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type      ActorType `json:"type"`
	SessionID *string   `json:"session_id,omitempty"`
	StaffID   *string   `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticket_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Source         domain.TicketSource   `json:"source"`
	Priority       domain.TicketPriority `json:"priority"`
	SentimentLabel domain.SentimentLabel `json:"sentiment_label"`
	ProblemSummary string                `json:"problem_summary"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketEmailSentPayload payload.
type TicketEmailSentPayload struct {
	SentAt time.Time `json:"sent_at"`
}

// SessionActor attributes an event to a chat session.
func SessionActor(sessionID string) Actor {
	return Actor{Type: ActorSession, SessionID: &sessionID}
}

// StaffActor attributes an event to a staff member.
func StaffActor(staffID string) Actor {
	return Actor{Type: ActorStaff, StaffID: &staffID}
}
