package item

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines item persistence operations
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	GetByName(ctx context.Context, name string) (*Item, error)

	// LockForUpdate acquires an exclusive row lock on the item and returns
	// its current state. Must be called inside a transaction; the lock is
	// released when that transaction commits or rolls back.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Item, error)

	// UpdateBalance writes the new balance for a locked item. This is the
	// only write path for the balance column.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) error

	// Delete removes an item. Items referenced by stock movements cannot
	// be deleted; ErrItemReferenced is returned instead.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrItemNotFound indicates a missing item
type ErrItemNotFound struct {
	ItemID uuid.UUID
}

func (e ErrItemNotFound) Error() string {
	return "product not found: " + e.ItemID.String()
}

// Is matches any ErrItemNotFound when the target carries a nil ID
func (e ErrItemNotFound) Is(target error) bool {
	t, ok := target.(ErrItemNotFound)
	if !ok {
		return false
	}
	if t.ItemID == uuid.Nil {
		return true
	}
	return e.ItemID == t.ItemID
}

// ErrDuplicateName indicates an item name uniqueness violation
type ErrDuplicateName struct {
	Name string
}

func (e ErrDuplicateName) Error() string {
	return "item with name already exists: " + e.Name
}

// ErrItemReferenced indicates the item has stock movements and cannot be deleted
type ErrItemReferenced struct {
	ItemID uuid.UUID
}

func (e ErrItemReferenced) Error() string {
	return "item is referenced by stock movements and cannot be deleted: " + e.ItemID.String()
}

// Is matches any ErrItemReferenced when the target carries a nil ID
func (e ErrItemReferenced) Is(target error) bool {
	t, ok := target.(ErrItemReferenced)
	if !ok {
		return false
	}
	if t.ItemID == uuid.Nil {
		return true
	}
	return e.ItemID == t.ItemID
}
