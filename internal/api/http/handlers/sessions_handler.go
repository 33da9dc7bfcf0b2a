package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/api/dto"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/service"
	apperrors "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/pkg/util"
)

// SessionsHandler exposes the conversation core to chat clients.
type SessionsHandler struct {
	support *service.SupportService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(support *service.SupportService) *SessionsHandler {
	return &SessionsHandler{support: support}
}

// Start POST /sessions.
func (h *SessionsHandler) Start(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	id := h.support.StartSession(req.SessionID)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SessionResponse{SessionID: id}})
}

// End DELETE /sessions/:id.
func (h *SessionsHandler) End(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.support.EndSession(id); err != nil {
		return sessionError(err, id)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SendMessage POST /sessions/:id/messages.
func (h *SessionsHandler) SendMessage(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.support.ProcessTurn(c.UserContext(), id, req.Text)
	if err != nil {
		return sessionError(err, id)
	}

	resp := dto.TurnResponse{
		Response:          result.Response,
		Sentiment:         result.Verdict,
		Action:            result.Action,
		ShouldOfferTicket: result.ShouldOfferTicket,
		ShouldEscalate:    result.ShouldEscalate,
		NegativeCount:     result.NegativeCount,
		RoutingMessage:    result.RoutingMessage,
		TicketCreated:     result.TicketCreated,
	}
	if result.TicketError != nil {
		msg := apperrors.ToDomainError(result.TicketError).Message
		resp.TicketError = &msg
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateTicket POST /sessions/:id/tickets.
func (h *SessionsHandler) CreateTicket(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.CreateManualTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	info, err := h.support.CreateManualTicket(c.UserContext(), id, req.Email)
	if err != nil {
		return sessionError(err, id)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": info})
}

// Reset POST /sessions/:id/reset.
func (h *SessionsHandler) Reset(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.support.ResetSession(id); err != nil {
		return sessionError(err, id)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Sentiment GET /sessions/:id/sentiment.
func (h *SessionsHandler) Sentiment(c *fiber.Ctx) error {
	id := c.Params("id")
	st, err := h.support.Status(id)
	if err != nil {
		return sessionError(err, id)
	}
	return c.JSON(fiber.Map{"data": dto.AverageSentimentResponse{
		Positive:      st.Average.Positive,
		Neutral:       st.Average.Neutral,
		Negative:      st.Average.Negative,
		Stage:         st.Stage,
		NegativeCount: st.NegativeCount,
		Escalated:     st.Escalated,
		Turns:         st.Turns,
	}})
}

// Tickets GET /sessions/:id/tickets.
func (h *SessionsHandler) Tickets(c *fiber.Ctx) error {
	id := c.Params("id")
	ids, err := h.support.CreatedTickets(id)
	if err != nil {
		return sessionError(err, id)
	}
	return c.JSON(fiber.Map{"data": dto.SessionTicketsResponse{TicketIDs: ids}})
}

// History GET /sessions/:id/history.
func (h *SessionsHandler) History(c *fiber.Ctx) error {
	id := c.Params("id")
	turns, err := h.support.History(id)
	if err != nil {
		return sessionError(err, id)
	}
	return c.JSON(fiber.Map{"data": dto.HistoryResponse{Turns: turns}})
}

func sessionError(err error, sessionID string) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return apperrors.NewNotFound("session", map[string]any{"session_id": sessionID})
	case errors.Is(err, service.ErrEmptyMessage):
		return apperrors.NewValidationError("text required", nil)
	}
	return err
}
