package dto

import "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"

// StartSessionRequest optionally pins the session id.
type StartSessionRequest struct {
	SessionID string `json:"session_id"`
}

// SessionResponse identifies a session.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// SendMessageRequest payload.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// TurnResponse is the outcome of one conversation turn.
type TurnResponse struct {
	Response          string                  `json:"response"`
	Sentiment         domain.SentimentVerdict `json:"sentiment"`
	Action            domain.Action           `json:"action"`
	ShouldOfferTicket bool                    `json:"should_offer_ticket"`
	ShouldEscalate    bool                    `json:"should_escalate"`
	NegativeCount     int                     `json:"negative_count"`
	RoutingMessage    *string                 `json:"routing_message,omitempty"`
	TicketCreated     *domain.TicketInfo      `json:"ticket_created,omitempty"`
	TicketError       *string                 `json:"ticket_error,omitempty"`
}

// AverageSentimentResponse is the running session distribution plus escalation standing.
type AverageSentimentResponse struct {
	Positive      float64 `json:"positive"`
	Neutral       float64 `json:"neutral"`
	Negative      float64 `json:"negative"`
	Stage         string  `json:"stage"`
	NegativeCount int     `json:"negative_count"`
	Escalated     bool    `json:"escalated"`
	Turns         int     `json:"turns"`
}

// CreateManualTicketRequest payload.
type CreateManualTicketRequest struct {
	Email *string `json:"email"`
}

// SessionTicketsResponse lists ids of tickets raised in a session.
type SessionTicketsResponse struct {
	TicketIDs []int64 `json:"ticket_ids"`
}

// HistoryResponse is the conversation memory snapshot.
type HistoryResponse struct {
	Turns []domain.Turn `json:"turns"`
}
