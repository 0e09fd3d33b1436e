package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mirzalazuardi/inventory-page/internal/config"
	"github.com/segmentio/kafka-go"
)

// MovementEventProducer publishes committed movement events to the
// movement topic. The outbox poller is its only caller; delivery
// guarantees come from the outbox, so the writer acks with one replica.
type MovementEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewMovementEventProducer creates the producer and ensures the topic exists
func NewMovementEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*MovementEventProducer, error) {
	if cfg.MovementTopic == "" {
		return nil, fmt.Errorf("kafka movement topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for movement event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.MovementTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure movement topic %s exists: %w", cfg.MovementTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.MovementTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false, // The poller marks rows processed only after a confirmed write
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write movement events", "topic", cfg.MovementTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Wrote movement events", "topic", cfg.MovementTopic, "count", len(messages))
			}
		},
	}

	return &MovementEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.MovementTopic,
	}, nil
}

// Publish writes a single movement event. The key is the item ID so all
// events for one item land on the same partition and replay in order.
func (p *MovementEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal movement event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish movement event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish movement event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published movement event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *MovementEventProducer) Close() error {
	p.logger.Info("Closing movement event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
