package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mirzalazuardi/inventory-page/internal/domain/outbox"
	"github.com/mirzalazuardi/inventory-page/internal/platform/messaging/producers"
)

// MovementPublisher publishes outbox messages to the movement event topic
type MovementPublisher interface {
	PublishMovement(ctx context.Context, message *outbox.Message) error
}

// MovementPublisherImpl implements MovementPublisher
type MovementPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewMovementPublisher creates a new publisher
func NewMovementPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) MovementPublisher {
	return &MovementPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishMovement pushes one outbox message onto the movement topic and
// marks it processed. Messages are keyed by item ID so all movements of an
// item land on the same partition in commit order.
func (p *MovementPublisherImpl) PublishMovement(ctx context.Context, message *outbox.Message) error {
	m, err := message.GetMovement()
	if err != nil {
		p.logger.Error("Failed to unmarshal movement from outbox payload",
			"outbox_id", message.ID, "movement_id", message.MovementID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	p.logger.Info("Attempting to publish outbox message to movement topic",
		"outbox_id", message.ID, "movement_id", message.MovementID,
	)

	if err := p.producer.Publish(ctx, message.ItemID.String(), m); err != nil {
		return fmt.Errorf("failed to publish movement %d: %w", message.MovementID, err)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		p.logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "movement_id", message.MovementID, "error", err,
		)
		return fmt.Errorf("publish for movement %d OK, but failed to mark outbox %d as PROCESSED: %w", message.MovementID, message.ID, err)
	}

	p.logger.Info("Outbox message successfully published and marked as PROCESSED",
		"outbox_id", message.ID, "movement_id", message.MovementID,
	)
	return nil
}
