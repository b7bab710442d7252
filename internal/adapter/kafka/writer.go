package kafka

import (
	"context"
	"log/slog"
	"sort"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/scopesignals/coverage/internal/config"
	"github.com/scopesignals/coverage/internal/domain"
)

// Writer produces selection events to a Kafka topic.
// It implements coverage.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured selection topic.
// Messages are hash-balanced on the session key so one visitor's events stay
// in order.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSelectionTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: cfg.BatchFlushInterval,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes the serialized events in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("selection events written", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage maps an OutputEvent onto a Kafka message. Headers are emitted in
// key order.
func toMessage(event domain.OutputEvent) kafkago.Message {
	keys := make([]string, 0, len(event.Headers))
	for k := range event.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(event.Headers[k])})
	}
	return kafkago.Message{
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	}
}
