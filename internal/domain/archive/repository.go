package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages the movement archive used for reporting queries
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByMovementID(ctx context.Context, movementID int64) (*Entry, error)
	GetByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error)
	GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*Entry, error)
}
