package dto

import (
	"time"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

// TicketResponse is the staff view of a persisted ticket.
type TicketResponse struct {
	ID                  int64                 `json:"id"`
	SessionID           string                `json:"session_id"`
	UserEmail           *string               `json:"user_email,omitempty"`
	ProblemSummary      string                `json:"problem_summary"`
	ConversationSummary string                `json:"conversation_summary"`
	AdviceGiven         string                `json:"advice_given"`
	SentimentScore      float64               `json:"sentiment_score"`
	SentimentLabel      domain.SentimentLabel `json:"sentiment_label"`
	Status              domain.TicketStatus   `json:"status"`
	Priority            domain.TicketPriority `json:"priority"`
	Source              domain.TicketSource   `json:"source"`
	EmailSentAt         *time.Time            `json:"email_sent_at,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                  t.ID,
		SessionID:           t.SessionID,
		UserEmail:           t.UserEmail,
		ProblemSummary:      t.ProblemSummary,
		ConversationSummary: t.ConversationSummary,
		AdviceGiven:         t.AdviceGiven,
		SentimentScore:      t.SentimentScore,
		SentimentLabel:      t.SentimentLabel,
		Status:              t.Status,
		Priority:            t.Priority,
		Source:              t.Source,
		EmailSentAt:         t.EmailSentAt,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
