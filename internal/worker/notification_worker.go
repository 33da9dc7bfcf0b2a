package worker

import (
	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/events"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/service"
)

// NotificationWorker owns the ticket event subscribers and any external sink.
type NotificationWorker struct {
	notifications *service.NotificationService
	kafka         *events.KafkaSink
	logger        *zap.Logger
}

// NewNotificationWorker wires the log handlers and, when brokers are set, the Kafka sink.
func NewNotificationWorker(dispatcher events.Dispatcher, cfg config.KafkaConfig, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &NotificationWorker{logger: logger}

	var sinks []service.EventSink
	if len(cfg.Brokers) > 0 {
		w.kafka = events.NewKafkaSink(cfg.Brokers, cfg.Topic, logger)
		sinks = append(sinks, w.kafka)
	}
	w.notifications = service.NewNotificationService(dispatcher, logger, sinks...)
	return w
}

// StreamsToKafka reports whether events leave the process.
func (w *NotificationWorker) StreamsToKafka() bool {
	return w.kafka != nil
}

// Start registers notification handlers.
func (w *NotificationWorker) Start() {
	w.notifications.RegisterHandlers()
	w.logger.Info("notification worker started", zap.Bool("kafka", w.StreamsToKafka()))
}

// Stop flushes the Kafka sink, if any.
func (w *NotificationWorker) Stop() error {
	if w.kafka == nil {
		return nil
	}
	return w.kafka.Close()
}
