package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mirzalazuardi/inventory-page/internal/archiver/service"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/mirzalazuardi/inventory-page/internal/platform/messaging/producers"
)

// MovementEventHandler handles incoming movement event messages from Kafka
type MovementEventHandler struct {
	archivalService service.ArchivalService
	producer        producers.DeadLetterPublisher
	logger          *slog.Logger
}

// NewMovementEventHandler creates a new handler
func NewMovementEventHandler(
	logger *slog.Logger,
	archivalService service.ArchivalService,
	producer producers.DeadLetterPublisher,
) *MovementEventHandler {
	return &MovementEventHandler{
		archivalService: archivalService,
		producer:        producer,
		logger:          logger,
	}
}

// HandleMessage processes Kafka messages
func (h *MovementEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var m movement.Movement
	if err := json.Unmarshal(value, &m); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal movement from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	h.logger.Info("Received movement event for archival",
		"movement_id", m.ID,
		"item_id", m.ItemID.String(),
		"direction", m.Direction,
		"quantity", m.Quantity,
	)

	if err := h.archivalService.ArchiveMovement(ctx, &m); err != nil {
		h.logger.Error("Failed to archive movement",
			"movement_id", m.ID,
			"item_id", m.ItemID.String(),
			"error", err,
		)
		return fmt.Errorf("archiving movement %d failed: %w", m.ID, err)
	}

	h.logger.Info("Successfully archived movement", "movement_id", m.ID)
	return nil // Success, commit offset
}
