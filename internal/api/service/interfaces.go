package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
)

// ItemService defines the interface for item administration
type ItemService interface {
	// CreateItem registers a new item with an initial balance
	// Returns ErrDuplicateName if an item with the same name exists
	CreateItem(ctx context.Context, name string, initialBalance int64) (*item.Item, error)

	// GetItemByID retrieves an item by its ID
	// Returns ErrItemNotFound if the item doesn't exist
	GetItemByID(ctx context.Context, id uuid.UUID) (*item.Item, error)

	// DeleteItem removes an item
	// Returns ErrItemReferenced if movements reference the item
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// MovementService defines the interface for stock movement operations
type MovementService interface {
	// SubmitMovement runs a movement through the transaction engine and
	// returns the item's state after the commit
	SubmitMovement(ctx context.Context, itemID uuid.UUID, quantity int64, direction movement.Direction) (*item.Snapshot, error)

	// GetMovementByID retrieves a single committed movement
	// Returns ErrMovementNotFound if no such movement exists
	GetMovementByID(ctx context.Context, id int64) (*movement.Record, error)

	// QueryMovements retrieves a filtered, sorted page of movements plus
	// pagination metadata. The page request is clamped to configured limits.
	QueryMovements(ctx context.Context, filter movement.Filter, sort movement.Sort, page movement.Page) ([]*movement.Record, movement.PageInfo, error)
}

// MovementSubmitter is the engine surface the movement service depends on
type MovementSubmitter interface {
	Submit(ctx context.Context, itemID uuid.UUID, quantity int64, direction movement.Direction) (*item.Snapshot, error)
}
