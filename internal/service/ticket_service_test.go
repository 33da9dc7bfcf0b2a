package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/domain"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/events"
	apperrors "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/pkg/util"
)

func seedTicket(t *testing.T, h *harness, session string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		SessionID:      session,
		ProblemSummary: "Order stuck",
		SentimentLabel: domain.SentimentNeutral,
		SentimentScore: 0.5,
		Source:         domain.TicketSourceManual,
	}
	require.NoError(t, h.tickets.Create(context.Background(), ticket))
	return ticket
}

func TestTicketServiceCreatePublishes(t *testing.T) {
	h := newHarness(t)
	var got []events.Event
	h.dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})

	ticket := seedTicket(t, h, "s1")
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)

	require.Len(t, got, 1)
	assert.Equal(t, events.EventTicketCreated, got[0].Type)
	assert.Equal(t, ticket.ID, got[0].TicketID)
	assert.NotEmpty(t, got[0].ID)
	require.NotNil(t, got[0].Actor.SessionID)
	assert.Equal(t, "s1", *got[0].Actor.SessionID)
}

func TestTicketServiceUpdateStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := seedTicket(t, h, "s1")

	var changes []events.TicketStatusChangedPayload
	h.dispatcher.Subscribe(events.EventTicketStatusChanged, func(_ context.Context, e events.Event) error {
		changes = append(changes, e.Payload.(events.TicketStatusChangedPayload))
		return nil
	})

	updated, err := h.tickets.UpdateStatus(ctx, "desk@example.com", ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	_, err = h.tickets.UpdateStatus(ctx, "desk@example.com", ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)

	_, err = h.tickets.UpdateStatus(ctx, "desk@example.com", ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)

	require.Len(t, changes, 2)
	assert.Equal(t, domain.TicketStatusOpen, changes[0].OldStatus)
	assert.Equal(t, domain.TicketStatusClosed, changes[1].NewStatus)
}

func TestTicketServiceUpdateStatusErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := seedTicket(t, h, "s1")

	_, err := h.tickets.UpdateStatus(ctx, "desk", ticket.ID, "pending")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = h.tickets.UpdateStatus(ctx, "desk", 999, domain.TicketStatusClosed)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	_, err = h.tickets.UpdateStatus(ctx, "desk", ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)
	_, err = h.tickets.UpdateStatus(ctx, "desk", ticket.ID, domain.TicketStatusResolved)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestTicketServiceList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedTicket(t, h, "a")
	second := seedTicket(t, h, "b")
	_, err := h.tickets.UpdateStatus(ctx, "desk", second.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	all, err := h.tickets.ListTickets(ctx, TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	resolved := domain.TicketStatusResolved
	filtered, err := h.tickets.ListTickets(ctx, TicketListFilter{Status: &resolved})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)

	bogus := domain.TicketStatus("lost")
	_, err = h.tickets.ListTickets(ctx, TicketListFilter{Status: &bogus})
	assert.Error(t, err)

	none := "nobody"
	empty, err := h.tickets.ListTickets(ctx, TicketListFilter{SessionID: &none})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetTicketNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.tickets.GetTicket(context.Background(), 5)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, int64(5), de.Details["ticket_id"])
}

func TestStaffLogin(t *testing.T) {
	hash, err := hashForTest("s3cret-pass")
	require.NoError(t, err)
	svc := NewAuthService(authConfigForTest(hash))
	require.True(t, svc.Enabled())

	token, _, err := svc.LoginStaff(context.Background(), " Desk@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "desk@example.com", claims.StaffID)

	_, _, err = svc.LoginStaff(context.Background(), "desk@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.LoginStaff(context.Background(), "other@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	disabled := NewAuthService(authConfigForTest(""))
	_, _, err = disabled.LoginStaff(context.Background(), "desk@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
