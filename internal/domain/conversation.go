package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of conversation memory.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Action is the routing outcome for a user message.
type Action string

const (
	ActionContinue    Action = "continue"
	ActionOfferTicket Action = "offer_ticket"
	ActionEscalate    Action = "escalate"
)

// RoutingDecision is produced by the escalation policy for every inbound message.
type RoutingDecision struct {
	Verdict           SentimentVerdict `json:"sentiment"`
	Action            Action           `json:"action"`
	ShouldOfferTicket bool             `json:"should_offer_ticket"`
	ShouldEscalate    bool             `json:"should_escalate"`
	NegativeCount     int              `json:"negative_count"`
	Message           *string          `json:"message,omitempty"`
}

// SessionStatus summarizes where a session stands.
type SessionStatus struct {
	Average       Distribution `json:"average"`
	Stage         string       `json:"stage"`
	NegativeCount int          `json:"negative_count"`
	TicketOffered bool         `json:"ticket_offered"`
	Escalated     bool         `json:"escalated"`
	Turns         int          `json:"turns"`
}

// TurnResult is returned to the caller after a full conversation turn.
type TurnResult struct {
	Response          string           `json:"response"`
	Verdict           SentimentVerdict `json:"sentiment"`
	Action            Action           `json:"action"`
	ShouldOfferTicket bool             `json:"should_offer_ticket"`
	ShouldEscalate    bool             `json:"should_escalate"`
	NegativeCount     int              `json:"negative_count"`
	RoutingMessage    *string          `json:"routing_message,omitempty"`
	TicketCreated     *TicketInfo      `json:"ticket_created,omitempty"`
	// TicketError is set when a ticket should have been created but persistence failed.
	TicketError error `json:"-"`
}
