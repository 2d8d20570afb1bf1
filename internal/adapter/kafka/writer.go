package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/rodferprod/classy-weather/internal/config"
	"github.com/rodferprod/classy-weather/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	publishAttempts = 3
	initialBackoff  = 100 * time.Millisecond
	maxBackoff      = time.Second
)

// Writer produces forecast events to a Kafka topic.
// It implements domain.Publisher.
type Writer struct {
	writer  messageWriter
	logger  *slog.Logger
	backoff time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter creates a Kafka producer for the configured forecast topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger, backoff: initialBackoff}
}

// Publish serializes and writes one forecast event, retrying with
// exponential backoff. Events for the same location query share a partition.
func (w *Writer) Publish(ctx context.Context, event domain.ForecastEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}

	backoff := w.backoff
	for attempt := 1; ; attempt++ {
		err = w.writer.WriteMessages(ctx, msg)
		if err == nil {
			w.logger.Debug("forecast event published", "id", event.ID, "location", event.DisplayLocation)
			return nil
		}
		if attempt == publishAttempts || ctx.Err() != nil {
			return fmt.Errorf("publish forecast event %s: %w", event.ID, err)
		}
		w.logger.Warn("publish failed, retrying", "id", event.ID, "attempt", attempt, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return fmt.Errorf("publish forecast event %s: %w", event.ID, ctx.Err())
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

// Close flushes pending writes and closes the underlying Kafka writer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ForecastEvent into a Kafka message.
func serializeToMessage(event domain.ForecastEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Query),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "resolved_at", Value: []byte(event.ResolvedAt.Format(time.RFC3339))},
		},
	}, nil
}
