package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/config"
	"github.com/AyotundeOni/Customer-Support-Chatbot-RAG-Fine-tuned-LLM/internal/events"
)

func TestWorkerWithoutBrokers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	w := NewNotificationWorker(dispatcher, config.KafkaConfig{}, nil)
	assert.False(t, w.StreamsToKafka())

	w.Start()
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 1,
		Actor:    events.SessionActor("s-1"),
	})
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}

func TestWorkerWithBrokers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	w := NewNotificationWorker(dispatcher, config.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "support-ticket-events",
	}, zap.NewNop())

	assert.True(t, w.StreamsToKafka())
	assert.NoError(t, w.Stop())
}
