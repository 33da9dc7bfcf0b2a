package service

import (
	"fmt"
	"strings"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
)

const (
	urgentScoreThreshold = 0.8

	// escalationSentimentScore is recorded on tickets raised by sustained negativity.
	escalationSentimentScore = 0.8

	fallbackProblemLimit = 300

	defaultIntentProblem     = "Customer needs assistance"
	defaultEscalationProblem = "Customer needs human assistance"
	defaultManualProblem     = "Customer support request"
	fallbackAdvice           = "See conversation history for details"
)

// PriorityFor maps a sentiment label and score to a ticket priority.
func PriorityFor(label domain.SentimentLabel, score float64) domain.TicketPriority {
	switch label {
	case domain.SentimentNegative:
		if score >= urgentScoreThreshold {
			return domain.TicketPriorityUrgent
		}
		return domain.TicketPriorityHigh
	case domain.SentimentPositive:
		return domain.TicketPriorityLow
	default:
		return domain.TicketPriorityMedium
	}
}

// UrgencySentiment translates a generator urgency hint into the sentiment recorded
// on the ticket. Unknown hints read as medium.
func UrgencySentiment(hint string) (domain.SentimentLabel, float64) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "urgent":
		return domain.SentimentNegative, 0.9
	case "high":
		return domain.SentimentNegative, 0.7
	case "low":
		return domain.SentimentPositive, 0.3
	default:
		return domain.SentimentNeutral, 0.5
	}
}

// ManualSentiment derives the ticket sentiment of a user-requested ticket from the
// session's average distribution. The score is the average negative share.
func ManualSentiment(avg domain.Distribution) (domain.SentimentLabel, float64) {
	switch {
	case avg.Negative > 0.5:
		return domain.SentimentNegative, avg.Negative
	case avg.Negative > 0.3:
		return domain.SentimentNeutral, avg.Negative
	default:
		return domain.SentimentPositive, avg.Negative
	}
}

// FallbackSummary builds ticket narrative fields locally when the summarizer is unavailable.
func FallbackSummary(turns []domain.Turn) domain.Summary {
	problem := defaultIntentProblem
	for _, t := range turns {
		if t.Role == domain.RoleUser {
			problem = truncateRunes(t.Content, fallbackProblemLimit)
			break
		}
	}
	return domain.Summary{
		ProblemSummary:      problem,
		AdviceGiven:         fallbackAdvice,
		ConversationSummary: fmt.Sprintf("Customer conversation with %d messages", len(turns)),
	}
}

// EmptySummary describes a ticket raised before any conversation took place.
func EmptySummary() domain.Summary {
	return domain.Summary{
		ProblemSummary:      defaultManualProblem,
		AdviceGiven:         "No advice recorded",
		ConversationSummary: "No conversation history",
	}
}

type ticketDraft struct {
	sessionID string
	problem   string
	summary   domain.Summary
	label     domain.SentimentLabel
	score     float64
	source    domain.TicketSource
	email     *string
}

func (d ticketDraft) build() *domain.Ticket {
	problem := strings.TrimSpace(d.problem)
	if problem == "" {
		problem = d.summary.ProblemSummary
	}
	return &domain.Ticket{
		SessionID:           d.sessionID,
		UserEmail:           d.email,
		ProblemSummary:      problem,
		ConversationSummary: d.summary.ConversationSummary,
		AdviceGiven:         d.summary.AdviceGiven,
		SentimentScore:      d.score,
		SentimentLabel:      d.label,
		Status:              domain.TicketStatusOpen,
		Priority:            PriorityFor(d.label, d.score),
		Source:              d.source,
	}
}

// ConfirmationMessage is the static reply used when no generated confirmation is available.
func ConfirmationMessage(ticketID int64) string {
	return fmt.Sprintf("I've created support ticket #%d for you. Our team will contact you shortly!", ticketID)
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
