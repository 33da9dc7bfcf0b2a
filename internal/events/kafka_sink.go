package events

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink forwards ticket events to a Kafka topic, keyed by ticket id.
type KafkaSink struct {
	writer messageWriter
	logger *zap.Logger
}

// NewKafkaSink creates a sink writing to topic on brokers.
func NewKafkaSink(brokers []string, topic string, logger *zap.Logger) *KafkaSink {
	return newKafkaSink(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}, logger)
}

func newKafkaSink(w messageWriter, logger *zap.Logger) *KafkaSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaSink{writer: w, logger: logger}
}

// Handle is an EventHandler; register it with Dispatcher.SubscribeAll.
func (k *KafkaSink) Handle(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.TicketID, 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	k.logger.Debug("event forwarded to kafka",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
	return nil
}

// Close flushes and closes the underlying writer.
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
