// Package bootstrap assembles the conversation engine and its stores from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/email"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/events"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/llm"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/observability"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/persistence"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/repository"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/retrieval"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/sentiment"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/service"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/worker"
)

// Components is the wired application graph.
type Components struct {
	Postgres *persistence.Postgres
	SQLite   *persistence.SQLite
	Redis    *persistence.Redis

	Metrics *observability.Metrics
	Tickets *service.TicketService
	Support *service.SupportService
	Auth    *service.AuthService
	Worker  *worker.NotificationWorker

	logger *zap.Logger
}

// Build connects the ticket store, collaborators and event sinks.
// Postgres is used when a DSN is configured; otherwise tickets live in SQLite.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c := &Components{Metrics: observability.NewMetrics(), logger: logger}

	repo, err := c.openTicketStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	c.Worker = worker.NewNotificationWorker(dispatcher, cfg.Kafka, logger)
	c.Worker.Start()

	c.Tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	c.Auth = service.NewAuthService(cfg.Auth)

	c.Redis = persistence.NewRedis(cfg.Redis, logger)
	gemini := llm.NewClient(cfg.Gemini)
	if !gemini.IsConfigured() {
		logger.Warn("GOOGLE_API_KEY not provided; replies fall back to an apology")
	}

	c.Support = service.NewSupportService(service.SupportDependencies{
		Sessions:   service.NewSessionRegistry(sentiment.NewAnalyzer(cfg.Escalation.NegativeThreshold), cfg.Escalation),
		Generator:  llm.NewGenerator(gemini),
		Retriever:  c.retriever(cfg, gemini, logger),
		Summarizer: llm.NewSummarizer(gemini),
		Notifier:   notifier(cfg.SMTP, logger),
		Tickets:    c.Tickets,
		Metrics:    c.Metrics,
		Logger:     logger,
	})
	return c, nil
}

func (c *Components) openTicketStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.TicketRepository, error) {
	if cfg.Postgres.DSN != "" {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		c.Postgres = pg
		return repository.NewPostgresTicketRepository(pg.PoolHandle()), nil
	}

	db, err := persistence.OpenSQLite(cfg.SQLite.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	c.SQLite = db
	return repository.NewSQLiteTicketRepository(db.DB), nil
}

func (c *Components) retriever(cfg *config.Config, gemini *llm.Client, logger *zap.Logger) service.Retriever {
	if cfg.Retrieval.IndexHost == "" || !gemini.IsConfigured() {
		logger.Info("knowledge base lookup disabled")
		return nil
	}
	var r retrieval.ContextRetriever = retrieval.NewVectorRetriever(
		retrieval.NewGeminiEmbedder(gemini),
		retrieval.NewPineconeIndex(cfg.Retrieval.IndexHost, cfg.Retrieval.APIKey, cfg.Retrieval.Namespace, cfg.Gemini.Timeout()),
		cfg.Escalation.RetrievalTopK,
		cfg.Retrieval.Dimension,
	)
	if c.Redis.Enabled() {
		r = retrieval.NewCachedRetriever(r, c.Redis.Client, cfg.Redis.CacheTTL(), logger)
	}
	return r
}

func notifier(cfg config.SMTPConfig, logger *zap.Logger) service.Notifier {
	n := email.NewNotifier(cfg, logger)
	if !n.Configured() {
		logger.Info("SMTP credentials not provided; ticket emails disabled")
		return nil
	}
	return n
}

// Close releases stores and flushes event sinks.
func (c *Components) Close() {
	if err := c.Worker.Stop(); err != nil {
		c.logger.Warn("closing event sink", zap.Error(err))
	}
	c.Redis.Close()
	c.Postgres.Close()
	if err := c.SQLite.Close(); err != nil {
		c.logger.Warn("closing sqlite", zap.Error(err))
	}
}
