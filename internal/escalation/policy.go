// Package escalation decides, per inbound message, whether a conversation
// should continue, offer a support ticket or escalate to a human.
package escalation

import "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"

// DefaultEscalationCount is the number of negative messages that triggers escalation.
const DefaultEscalationCount = 2

const (
	// OfferMessage accompanies the one-shot ticket offer.
	OfferMessage = "I sense this might be frustrating. Would you like me to create " +
		"a support ticket so a human agent can assist you directly?"
	// EscalateMessage accompanies an escalation decision.
	EscalateMessage = "I understand you're frustrated, and I'm sorry the assistance " +
		"hasn't been helpful. Let me create a support ticket so our team " +
		"can help you personally."
)

// Scorer turns text into a sentiment verdict. Implementations must not fail.
type Scorer interface {
	Score(text string) domain.SentimentVerdict
}

// Stage is the monotonic position of a session in the escalation ladder.
type Stage string

const (
	StageNormal    Stage = "normal"
	StageOffered   Stage = "offered"
	StageEscalated Stage = "escalated"
)

// Policy counts negative messages for one session. It is not safe for
// concurrent use; the owning session serializes access.
type Policy struct {
	scorer          Scorer
	escalationCount int
	negativeCount   int
	history         []domain.SentimentVerdict
}

// NewPolicy builds a policy. A non-positive escalationCount selects DefaultEscalationCount.
func NewPolicy(scorer Scorer, escalationCount int) *Policy {
	if escalationCount <= 0 {
		escalationCount = DefaultEscalationCount
	}
	return &Policy{scorer: scorer, escalationCount: escalationCount}
}

// Process scores message, updates the negative counter and returns the routing decision.
// ShouldEscalate stays true on every negative message past the threshold; callers gate
// the side effect themselves.
func (p *Policy) Process(message string) domain.RoutingDecision {
	verdict := p.scorer.Score(message)
	p.history = append(p.history, verdict)

	if verdict.IsNegative {
		p.negativeCount++
	}

	offer := verdict.IsNegative && p.negativeCount == 1
	escalate := verdict.IsNegative && p.negativeCount >= p.escalationCount

	decision := domain.RoutingDecision{
		Verdict:           verdict,
		Action:            domain.ActionContinue,
		ShouldOfferTicket: offer,
		ShouldEscalate:    escalate,
		NegativeCount:     p.negativeCount,
	}
	switch {
	case escalate:
		decision.Action = domain.ActionEscalate
		decision.Message = stringPtr(EscalateMessage)
	case offer:
		decision.Action = domain.ActionOfferTicket
		decision.Message = stringPtr(OfferMessage)
	}
	return decision
}

// Stage reports where the session sits on the escalation ladder.
func (p *Policy) Stage() Stage {
	switch {
	case p.negativeCount >= p.escalationCount:
		return StageEscalated
	case p.negativeCount > 0:
		return StageOffered
	default:
		return StageNormal
	}
}

// NegativeCount returns the number of negative messages since the last reset.
func (p *Policy) NegativeCount() int {
	return p.negativeCount
}

// AverageSentiment returns the mean distribution across all scored messages.
func (p *Policy) AverageSentiment() domain.Distribution {
	if len(p.history) == 0 {
		return domain.Distribution{}
	}
	var total domain.Distribution
	for _, v := range p.history {
		total.Positive += v.Distribution.Positive
		total.Neutral += v.Distribution.Neutral
		total.Negative += v.Distribution.Negative
	}
	n := float64(len(p.history))
	return domain.Distribution{
		Positive: total.Positive / n,
		Neutral:  total.Neutral / n,
		Negative: total.Negative / n,
	}
}

// Reset returns the policy to StageNormal.
func (p *Policy) Reset() {
	p.negativeCount = 0
	p.history = nil
}

func stringPtr(s string) *string {
	return &s
}
