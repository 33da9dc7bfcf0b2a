package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketSource records which path created the ticket.
type TicketSource string

const (
	TicketSourceIntent     TicketSource = "intent"
	TicketSourceEscalation TicketSource = "escalation"
	TicketSourceManual     TicketSource = "manual"
)

// Ticket is the persisted support request raised from a chat session.
type Ticket struct {
	ID                  int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	SessionID           string
	UserEmail           *string
	ProblemSummary      string
	ConversationSummary string
	AdviceGiven         string
	SentimentScore      float64
	SentimentLabel      SentimentLabel
	Status              TicketStatus
	Priority            TicketPriority
	Source              TicketSource
	EmailSentAt         *time.Time
}

// TicketInfo is what the conversation core reports back after creating a ticket.
type TicketInfo struct {
	TicketID       int64          `json:"ticket_id"`
	ProblemSummary string         `json:"problem_summary,omitempty"`
	Priority       TicketPriority `json:"priority"`
	EmailSent      bool           `json:"email_sent"`
	Message        string         `json:"message,omitempty"`
}
