package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/observability"
	apperrors "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/pkg/util"
)

// ErrEmptyMessage rejects blank user input.
var ErrEmptyMessage = errors.New("message text is empty")

const (
	apologyMessage       = "I apologize, I had trouble generating a response."
	ticketFailureMessage = "I'm sorry, I wasn't able to create a support ticket just now. " +
		"Please try again in a moment."
)

// Generator produces assistant replies. A reply is either text or a ticket intent.
type Generator interface {
	Generate(ctx context.Context, query, knowledge string, history []domain.Turn) (domain.Generation, error)
	Confirm(ctx context.Context, ticketID int64, problem string) (string, error)
}

// Retriever returns formatted knowledge-base context for a query.
type Retriever interface {
	RetrieveContext(ctx context.Context, query string) (string, error)
}

// Summarizer derives ticket narrative fields from conversation turns.
type Summarizer interface {
	Summarize(ctx context.Context, turns []domain.Turn) (domain.Summary, error)
}

// Notifier delivers a ticket notification. A nil error means the email was sent.
type Notifier interface {
	Notify(ctx context.Context, ticket *domain.Ticket) error
}

// TicketStore persists tickets on behalf of the conversation core.
type TicketStore interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	MarkEmailSent(ctx context.Context, ticket *domain.Ticket, at time.Time) error
}

// SupportDependencies bundles the collaborators of SupportService.
type SupportDependencies struct {
	Sessions   *SessionRegistry
	Generator  Generator
	Retriever  Retriever
	Summarizer Summarizer
	Notifier   Notifier
	Tickets    TicketStore
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// SupportService routes each user message through sentiment escalation and the
// generator, and raises tickets when either asks for one.
type SupportService struct {
	sessions   *SessionRegistry
	generator  Generator
	retriever  Retriever
	summarizer Summarizer
	notifier   Notifier
	tickets    TicketStore
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewSupportService constructs the service.
func NewSupportService(deps SupportDependencies) *SupportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SupportService{
		sessions:   deps.Sessions,
		generator:  deps.Generator,
		retriever:  deps.Retriever,
		summarizer: deps.Summarizer,
		notifier:   deps.Notifier,
		tickets:    deps.Tickets,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        clock,
	}
}

// StartSession registers a session and returns its id.
func (s *SupportService) StartSession(id string) string {
	return s.sessions.Start(id)
}

// EndSession discards a session.
func (s *SupportService) EndSession(id string) error {
	return s.sessions.End(id)
}

// ProcessTurn handles one user message. Collaborator failures degrade to fallbacks;
// a ticket persistence failure is reported on TurnResult.TicketError and leaves the
// session's ticket flags untouched.
func (s *SupportService) ProcessTurn(ctx context.Context, sessionID, text string) (*domain.TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	st := sess.state
	log := s.logger.With(zap.String("session_id", sessionID))

	st.memory.Append(domain.RoleUser, text)
	decision := st.policy.Process(text)

	turns := st.memory.Snapshot()
	history := turns[:len(turns)-1]
	knowledge := s.retrieve(ctx, log, text)

	result := &domain.TurnResult{
		Verdict:        decision.Verdict,
		Action:         decision.Action,
		ShouldEscalate: decision.ShouldEscalate,
		NegativeCount:  decision.NegativeCount,
		RoutingMessage: decision.Message,
	}

	var response string
	gen, genErr := s.generator.Generate(ctx, text, knowledge, history)
	switch {
	case genErr != nil:
		log.Warn("generation failed", zap.Error(genErr))
		s.metrics.RecordCollaboratorFailure("generator")
		response = apologyMessage
	case gen.HasIntent():
		info, err := s.raiseIntentTicket(ctx, log, sess, *gen.Intent)
		if err != nil {
			result.TicketError = err
			response = ticketFailureMessage
			break
		}
		st.ticketOffered = true
		result.TicketCreated = info
		response = info.Message
	default:
		response = gen.Text
		if strings.TrimSpace(response) == "" {
			response = apologyMessage
		}
	}

	// A failed intent ticket leaves the turn ticketless, so escalation may still fire.
	if result.TicketCreated == nil && decision.ShouldEscalate && !st.escalated {
		info, err := s.raiseEscalationTicket(ctx, log, sess)
		switch {
		case err != nil:
			result.TicketError = err
		case result.TicketError != nil:
			st.escalated = true
			result.TicketCreated = info
			response = info.Message
		default:
			st.escalated = true
			result.TicketCreated = info
			response = response + "\n\n" + info.Message
		}
	}

	st.memory.Append(domain.RoleAssistant, response)

	result.Response = response
	result.ShouldOfferTicket = decision.ShouldOfferTicket && !st.ticketOffered
	s.metrics.RecordAction(string(decision.Action))
	return result, nil
}

// CreateManualTicket raises a ticket at the user's request. It does not touch the
// escalation state.
func (s *SupportService) CreateManualTicket(ctx context.Context, sessionID string, email *string) (*domain.TicketInfo, error) {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	st := sess.state
	log := s.logger.With(zap.String("session_id", sessionID))

	if email != nil && strings.TrimSpace(*email) == "" {
		email = nil
	}
	summary := s.summarize(ctx, log, st.memory.Snapshot())
	label, score := ManualSentiment(st.policy.AverageSentiment())

	draft := ticketDraft{
		sessionID: sessionID,
		problem:   summary.ProblemSummary,
		summary:   summary,
		label:     label,
		score:     score,
		source:    domain.TicketSourceManual,
		email:     email,
	}
	if strings.TrimSpace(draft.problem) == "" {
		draft.problem = defaultManualProblem
	}
	ticket, sent, err := s.persistAndNotify(ctx, log, st, draft)
	if err != nil {
		return nil, err
	}
	st.ticketOffered = true
	return &domain.TicketInfo{
		TicketID:       ticket.ID,
		ProblemSummary: ticket.ProblemSummary,
		Priority:       ticket.Priority,
		EmailSent:      sent,
		Message:        ConfirmationMessage(ticket.ID),
	}, nil
}

// ResetSession replaces all state of the session with a fresh one.
func (s *SupportService) ResetSession(sessionID string) error {
	return s.sessions.reset(sessionID)
}

// AverageSentiment returns the mean sentiment distribution of the session.
func (s *SupportService) AverageSentiment(sessionID string) (domain.Distribution, error) {
	var out domain.Distribution
	err := s.withSession(sessionID, func(st *sessionState) {
		out = st.policy.AverageSentiment()
	})
	return out, err
}

// Status reports the session's escalation stage, counters and sentiment average.
func (s *SupportService) Status(sessionID string) (domain.SessionStatus, error) {
	var out domain.SessionStatus
	err := s.withSession(sessionID, func(st *sessionState) {
		out = domain.SessionStatus{
			Average:       st.policy.AverageSentiment(),
			Stage:         string(st.policy.Stage()),
			NegativeCount: st.policy.NegativeCount(),
			TicketOffered: st.ticketOffered,
			Escalated:     st.escalated,
			Turns:         st.memory.Len(),
		}
	})
	return out, err
}

// CreatedTickets returns the ids of tickets raised in this session, oldest first.
func (s *SupportService) CreatedTickets(sessionID string) ([]int64, error) {
	var out []int64
	err := s.withSession(sessionID, func(st *sessionState) {
		out = append([]int64{}, st.ticketIDs...)
	})
	return out, err
}

// History returns a copy of the session's conversation memory.
func (s *SupportService) History(sessionID string) ([]domain.Turn, error) {
	var out []domain.Turn
	err := s.withSession(sessionID, func(st *sessionState) {
		out = st.memory.Snapshot()
	})
	return out, err
}

// IsEscalated reports whether sentiment escalation already raised a ticket.
func (s *SupportService) IsEscalated(sessionID string) (bool, error) {
	var out bool
	err := s.withSession(sessionID, func(st *sessionState) {
		out = st.escalated
	})
	return out, err
}

func (s *SupportService) withSession(sessionID string, fn func(*sessionState)) error {
	sess, err := s.sessions.get(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.state)
	return nil
}

func (s *SupportService) raiseIntentTicket(ctx context.Context, log *zap.Logger, sess *session, intent domain.TicketIntent) (*domain.TicketInfo, error) {
	st := sess.state
	summary := s.summarize(ctx, log, st.memory.Snapshot())
	label, score := UrgencySentiment(intent.UrgencyHint)

	problem := strings.TrimSpace(intent.ProblemSummary)
	if problem == "" {
		problem = defaultIntentProblem
	}
	ticket, sent, err := s.persistAndNotify(ctx, log, st, ticketDraft{
		sessionID: sess.id,
		problem:   problem,
		summary:   summary,
		label:     label,
		score:     score,
		source:    domain.TicketSourceIntent,
	})
	if err != nil {
		return nil, err
	}

	message, err := s.generator.Confirm(ctx, ticket.ID, problem)
	if err != nil || strings.TrimSpace(message) == "" {
		if err != nil {
			log.Warn("ticket confirmation failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
			s.metrics.RecordCollaboratorFailure("confirmation")
		}
		message = ConfirmationMessage(ticket.ID)
	}
	return &domain.TicketInfo{
		TicketID:       ticket.ID,
		ProblemSummary: problem,
		Priority:       ticket.Priority,
		EmailSent:      sent,
		Message:        message,
	}, nil
}

func (s *SupportService) raiseEscalationTicket(ctx context.Context, log *zap.Logger, sess *session) (*domain.TicketInfo, error) {
	st := sess.state
	summary := s.summarize(ctx, log, st.memory.Snapshot())
	problem := summary.ProblemSummary
	if strings.TrimSpace(problem) == "" {
		problem = defaultEscalationProblem
	}
	ticket, sent, err := s.persistAndNotify(ctx, log, st, ticketDraft{
		sessionID: sess.id,
		problem:   problem,
		summary:   summary,
		label:     domain.SentimentNegative,
		score:     escalationSentimentScore,
		source:    domain.TicketSourceEscalation,
	})
	if err != nil {
		return nil, err
	}
	return &domain.TicketInfo{
		TicketID:       ticket.ID,
		ProblemSummary: ticket.ProblemSummary,
		Priority:       ticket.Priority,
		EmailSent:      sent,
		Message:        ConfirmationMessage(ticket.ID),
	}, nil
}

// persistAndNotify stores the ticket, records its id on the session and attempts the
// email. Only the store call can fail.
func (s *SupportService) persistAndNotify(ctx context.Context, log *zap.Logger, st *sessionState, draft ticketDraft) (*domain.Ticket, bool, error) {
	ticket := draft.build()
	if err := s.tickets.Create(ctx, ticket); err != nil {
		log.Error("ticket persistence failed", zap.String("source", string(draft.source)), zap.Error(err))
		return nil, false, apperrors.NewPersistenceError(err)
	}
	st.ticketIDs = append(st.ticketIDs, ticket.ID)
	s.metrics.RecordTicket(string(draft.source))
	log.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("source", string(ticket.Source)),
		zap.String("priority", string(ticket.Priority)))

	sent := s.notify(ctx, log, ticket)
	return ticket, sent, nil
}

func (s *SupportService) notify(ctx context.Context, log *zap.Logger, ticket *domain.Ticket) bool {
	if s.notifier == nil {
		return false
	}
	if err := s.notifier.Notify(ctx, ticket); err != nil {
		log.Warn("ticket email failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		s.metrics.RecordCollaboratorFailure("email")
		return false
	}
	if err := s.tickets.MarkEmailSent(ctx, ticket, s.now()); err != nil {
		log.Warn("stamping email time failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
	}
	return true
}

func (s *SupportService) retrieve(ctx context.Context, log *zap.Logger, query string) string {
	if s.retriever == nil {
		return domain.NoKnowledgeContext
	}
	knowledge, err := s.retriever.RetrieveContext(ctx, query)
	if err != nil {
		log.Warn("retrieval failed", zap.Error(err))
		s.metrics.RecordCollaboratorFailure("retriever")
		return domain.NoKnowledgeContext
	}
	if strings.TrimSpace(knowledge) == "" {
		return domain.NoKnowledgeContext
	}
	return knowledge
}

// summarize never fails: a summarizer error or empty problem falls back to local fields.
func (s *SupportService) summarize(ctx context.Context, log *zap.Logger, turns []domain.Turn) domain.Summary {
	if len(turns) == 0 {
		return EmptySummary()
	}
	if s.summarizer == nil {
		return FallbackSummary(turns)
	}
	summary, err := s.summarizer.Summarize(ctx, turns)
	if err != nil {
		log.Warn("summarization failed", zap.Error(err))
		s.metrics.RecordCollaboratorFailure("summarizer")
		return FallbackSummary(turns)
	}
	if strings.TrimSpace(summary.ProblemSummary) == "" {
		return FallbackSummary(turns)
	}
	return summary
}
