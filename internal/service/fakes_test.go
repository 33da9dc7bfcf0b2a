package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/auth"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/events"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/observability"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/persistence"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/repository"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/sentiment"
)

type generateCall struct {
	query     string
	knowledge string
	history   []domain.Turn
}

type fakeGenerator struct {
	mu         sync.Mutex
	reply      func(query string) (domain.Generation, error)
	confirmErr error
	calls      []generateCall
}

func (g *fakeGenerator) Generate(_ context.Context, query, knowledge string, history []domain.Turn) (domain.Generation, error) {
	g.mu.Lock()
	g.calls = append(g.calls, generateCall{query: query, knowledge: knowledge, history: history})
	reply := g.reply
	g.mu.Unlock()
	if reply == nil {
		return domain.Generation{Text: "Here is how to fix that."}, nil
	}
	return reply(query)
}

func (g *fakeGenerator) Confirm(_ context.Context, ticketID int64, problem string) (string, error) {
	if g.confirmErr != nil {
		return "", g.confirmErr
	}
	return "Ticket confirmed: " + problem, nil
}

type fakeRetriever struct {
	text string
	err  error
}

func (r fakeRetriever) RetrieveContext(context.Context, string) (string, error) {
	return r.text, r.err
}

type fakeSummarizer struct {
	summary domain.Summary
	err     error
}

func (s fakeSummarizer) Summarize(context.Context, []domain.Turn) (domain.Summary, error) {
	return s.summary, s.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []int64
}

func (n *fakeNotifier) Notify(_ context.Context, ticket *domain.Ticket) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, ticket.ID)
	return nil
}

// flakyStore fails Create while failing is set, or for the next failNext calls.
type flakyStore struct {
	TicketStore
	mu       sync.Mutex
	failing  bool
	failNext int
}

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	f.failing = v
	f.mu.Unlock()
}

func (f *flakyStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	failing := f.failing || f.failNext > 0
	if f.failNext > 0 {
		f.failNext--
	}
	f.mu.Unlock()
	if failing {
		return errors.New("database unavailable")
	}
	return f.TicketStore.Create(ctx, ticket)
}

type harness struct {
	svc        *SupportService
	tickets    *TicketService
	repo       repository.TicketRepository
	generator  *fakeGenerator
	notifier   *fakeNotifier
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

type harnessOption func(*SupportDependencies)

func withSummarizer(s Summarizer) harnessOption {
	return func(d *SupportDependencies) { d.Summarizer = s }
}

func withRetriever(r Retriever) harnessOption {
	return func(d *SupportDependencies) { d.Retriever = r }
}

func withStore(wrap func(TicketStore) TicketStore) harnessOption {
	return func(d *SupportDependencies) { d.Tickets = wrap(d.Tickets) }
}

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	store, err := persistence.OpenSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := repository.NewSQLiteTicketRepository(store.DB)
	dispatcher := events.NewInMemoryDispatcher(nil)
	tickets := NewTicketService(TicketDependencies{TicketRepo: repo, Dispatcher: dispatcher})
	metrics := observability.NewMetrics()

	h := &harness{
		tickets:    tickets,
		repo:       repo,
		generator:  &fakeGenerator{},
		notifier:   &fakeNotifier{},
		dispatcher: dispatcher,
		metrics:    metrics,
	}
	deps := SupportDependencies{
		Sessions:   NewSessionRegistry(sentiment.NewAnalyzer(0.6), config.DefaultEscalation()),
		Generator:  h.generator,
		Retriever:  fakeRetriever{text: "[Source 1] (Topic: payments)\nCheck Settings > Payments.\n"},
		Summarizer: fakeSummarizer{summary: domain.Summary{ProblemSummary: "Checkout is broken", AdviceGiven: "Clear cache", ConversationSummary: "Customer reported checkout failures"}},
		Notifier:   h.notifier,
		Tickets:    tickets,
		Metrics:    metrics,
		Clock:      func() time.Time { return fixedNow },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h.svc = NewSupportService(deps)
	return h
}

func (h *harness) storedTickets(t *testing.T) []domain.Ticket {
	t.Helper()
	list, err := h.repo.List(context.Background(), repository.TicketFilter{})
	require.NoError(t, err)
	return list
}

func hashForTest(password string) (string, error) {
	return auth.HashPassword(password, bcrypt.MinCost)
}

func authConfigForTest(hash string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		StaffEmail:            "desk@example.com",
		StaffPasswordHash:     hash,
	}
}
