package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/api/http/handlers"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/auth"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/events"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/observability"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/persistence"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/repository"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/sentiment"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/service"
)

const (
	staffEmail    = "desk@example.com"
	staffPassword = "s3cret-pass"
)

type scriptedGenerator struct{}

func (scriptedGenerator) Generate(_ context.Context, query, _ string, _ []domain.Turn) (domain.Generation, error) {
	if strings.Contains(query, "open a ticket") {
		return domain.Generation{Intent: &domain.TicketIntent{ProblemSummary: "Payout missing", UrgencyHint: "high"}}, nil
	}
	return domain.Generation{Text: "Try Settings > Payments."}, nil
}

func (scriptedGenerator) Confirm(context.Context, int64, string) (string, error) {
	return "", errors.New("confirmation unavailable")
}

type staticSummarizer struct{}

func (staticSummarizer) Summarize(context.Context, []domain.Turn) (domain.Summary, error) {
	return domain.Summary{ProblemSummary: "Payout missing", AdviceGiven: "Checked settings", ConversationSummary: "Merchant asked about payouts"}, nil
}

type okPinger struct{ err error }

func (p okPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	app     *fiber.App
	metrics *observability.Metrics
}

func newTestServer(t *testing.T, pingErr error) *testServer {
	t.Helper()
	store, err := persistence.OpenSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewSQLiteTicketRepository(store.DB),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	cfg := config.DefaultEscalation()
	support := service.NewSupportService(service.SupportDependencies{
		Sessions:   service.NewSessionRegistry(sentiment.NewAnalyzer(cfg.NegativeThreshold), cfg),
		Generator:  scriptedGenerator{},
		Summarizer: staticSummarizer{},
		Tickets:    tickets,
		Metrics:    metrics,
		Logger:     logger,
	})

	hash, err := auth.HashPassword(staffPassword, bcrypt.MinCost)
	require.NoError(t, err)
	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		StaffEmail:            staffEmail,
		StaffPasswordHash:     hash,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("support-chat-service", "test").WithDependency("sqlite", okPinger{err: pingErr}),
		Sessions:       handlers.NewSessionsHandler(support),
		Staff:          handlers.NewStaffHandler(authService),
		StaffTickets:   handlers.NewStaffTicketsHandler(tickets),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})
	return &testServer{app: app, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) startSession(t *testing.T) string {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/sessions", "", "")
	require.Equal(t, fiber.StatusCreated, status)
	id, _ := body["data"].(map[string]any)["session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/auth/staff/login",
		`{"email":"`+staffEmail+`","password":"`+staffPassword+`"}`, "")
	require.Equal(t, fiber.StatusOK, status)
	token, _ := body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	status, body := s.do(t, fiber.MethodGet, "/health/live", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, fiber.MethodGet, "/health/ready", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	down := newTestServer(t, errors.New("disk gone"))
	status, body = down.do(t, fiber.MethodGet, "/health/ready", "", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", body["error"].(map[string]any)["code"])
}

func TestSessionConversationFlow(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.startSession(t)

	status, body := s.do(t, fiber.MethodPost, "/sessions/"+id+"/messages", `{"text":"How do I change my store name?"}`, "")
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Try Settings > Payments.", data["response"])
	assert.Equal(t, string(domain.ActionContinue), data["action"])
	assert.Nil(t, data["ticket_created"])

	status, body = s.do(t, fiber.MethodPost, "/sessions/"+id+"/messages", `{"text":"please open a ticket"}`, "")
	require.Equal(t, fiber.StatusOK, status)
	created := body["data"].(map[string]any)["ticket_created"].(map[string]any)
	assert.Equal(t, string(domain.TicketPriorityHigh), created["priority"])
	assert.Equal(t, false, created["email_sent"])

	status, body = s.do(t, fiber.MethodGet, "/sessions/"+id+"/tickets", "", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].(map[string]any)["ticket_ids"], 1)

	status, body = s.do(t, fiber.MethodGet, "/sessions/"+id+"/history", "", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].(map[string]any)["turns"], 4)

	status, body = s.do(t, fiber.MethodGet, "/sessions/"+id+"/sentiment", "", "")
	require.Equal(t, fiber.StatusOK, status)
	sentimentData := body["data"].(map[string]any)
	assert.Equal(t, false, sentimentData["escalated"])
	assert.EqualValues(t, 4, sentimentData["turns"])
	assert.Contains(t, []any{"normal", "offered", "escalated"}, sentimentData["stage"])

	status, _ = s.do(t, fiber.MethodPost, "/sessions/"+id+"/reset", "", "")
	assert.Equal(t, fiber.StatusNoContent, status)
	_, body = s.do(t, fiber.MethodGet, "/sessions/"+id+"/history", "", "")
	assert.Empty(t, body["data"].(map[string]any)["turns"])

	status, _ = s.do(t, fiber.MethodDelete, "/sessions/"+id, "", "")
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = s.do(t, fiber.MethodGet, "/sessions/"+id+"/history", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestManualTicketEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.startSession(t)
	_, _ = s.do(t, fiber.MethodPost, "/sessions/"+id+"/messages", `{"text":"my payouts are missing"}`, "")

	status, body := s.do(t, fiber.MethodPost, "/sessions/"+id+"/tickets", `{"email":"owner@shop.test"}`, "")
	require.Equal(t, fiber.StatusCreated, status)
	info := body["data"].(map[string]any)
	assert.Equal(t, "Payout missing", info["problem_summary"])
	assert.NotZero(t, info["ticket_id"])
}

func TestSessionErrors(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := s.do(t, fiber.MethodPost, "/sessions/missing/messages", `{"text":"hello"}`, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])

	id := s.startSession(t)
	status, body = s.do(t, fiber.MethodPost, "/sessions/"+id+"/messages", `{"text":"   "}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])

	assert.Positive(t, s.metrics.Snapshot().Errors["/sessions/missing/messages|POST|NOT_FOUND"])
}

func TestStaffDesk(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.startSession(t)
	_, _ = s.do(t, fiber.MethodPost, "/sessions/"+id+"/messages", `{"text":"please open a ticket"}`, "")

	status, _ := s.do(t, fiber.MethodGet, "/staff/tickets", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.do(t, fiber.MethodPost, "/auth/staff/login", `{"email":"desk@example.com","password":"nope"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	token := s.login(t)

	status, body := s.do(t, fiber.MethodGet, "/staff/tickets?status=open", "", token)
	require.Equal(t, fiber.StatusOK, status)
	list := body["data"].([]any)
	require.Len(t, list, 1)
	ticket := list[0].(map[string]any)
	assert.Equal(t, string(domain.TicketSourceIntent), ticket["source"])
	ticketID := int64(ticket["id"].(float64))

	path := "/staff/tickets/" + jsonNumber(ticketID)
	status, body = s.do(t, fiber.MethodGet, path, "", token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, id, body["data"].(map[string]any)["session_id"])

	status, body = s.do(t, fiber.MethodPatch, path+"/status", `{"status":"in_progress"}`, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, string(domain.TicketStatusInProgress), body["data"].(map[string]any)["status"])

	status, _ = s.do(t, fiber.MethodPatch, path+"/status", `{"status":"archived"}`, token)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, fiber.MethodGet, "/staff/tickets/999", "", token)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodGet, "/staff/tickets/abc", "", token)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = s.do(t, fiber.MethodGet, "/staff/tickets?status=open", "", token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"])
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestMiddlewareRequestIDAndPanic(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })

	req := httptest.NewRequest(fiber.MethodGet, "/boom", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(fiber.HeaderXRequestID))

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body["error"]["code"])
	assert.Equal(t, "req-123", body["error"]["request_id"])

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
