package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/grib-catalog-service/internal/config"
	"github.com/couchcryptid/grib-catalog-service/internal/inventory"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces annotated fields to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple annotated fields to the sink
// Kafka topic in a single WriteMessages call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, fields []inventory.AnnotatedField) error {
	if len(fields) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(fields))
	for i := range fields {
		msg, err := serializeToMessage(fields[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AnnotatedField into a Kafka message.
func serializeToMessage(field inventory.AnnotatedField) (kafkago.Message, error) {
	data, err := json.Marshal(field)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize annotated field: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(field.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "abbrev", Value: []byte(field.Abbrev)},
			{Key: "processed_at", Value: []byte(field.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
