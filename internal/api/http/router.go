package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/api/http/handlers"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Sessions       *handlers.SessionsHandler
	Staff          *handlers.StaffHandler
	StaffTickets   *handlers.StaffTicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	sessions := app.Group("/sessions")
	sessions.Post("/", cfg.Sessions.Start)
	sessions.Delete("/:id", cfg.Sessions.End)
	sessions.Post("/:id/messages", cfg.Sessions.SendMessage)
	sessions.Post("/:id/tickets", cfg.Sessions.CreateTicket)
	sessions.Get("/:id/tickets", cfg.Sessions.Tickets)
	sessions.Post("/:id/reset", cfg.Sessions.Reset)
	sessions.Get("/:id/sentiment", cfg.Sessions.Sentiment)
	sessions.Get("/:id/history", cfg.Sessions.History)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Staff.Login)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	staff.Get("/tickets", cfg.StaffTickets.ListStaffTickets)
	staff.Get("/tickets/:id", cfg.StaffTickets.GetStaffTicket)
	staff.Patch("/tickets/:id/status", cfg.StaffTickets.UpdateStatus)
}
