package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/api/http"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/api/http/handlers"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/auth"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/bootstrap"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build application", zap.Error(err))
	}
	defer components.Close()

	if !components.Auth.Enabled() {
		logger.Warn("STAFF_EMAIL or STAFF_PASSWORD_HASH not set; staff desk login disabled")
	}

	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version)
	if components.Postgres.Enabled() {
		health.WithDependency("postgres", components.Postgres)
	} else {
		health.WithDependency("sqlite", components.SQLite)
	}
	if components.Redis.Enabled() {
		health.WithDependency("redis", components.Redis)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(app, logger, components.Metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         health,
		Sessions:       handlers.NewSessionsHandler(components.Support),
		Staff:          handlers.NewStaffHandler(components.Auth),
		StaffTickets:   handlers.NewStaffTicketsHandler(components.Tickets),
		AuthMiddleware: auth.NewAuthMiddleware(components.Auth.TokenManager()),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
