package item

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxNameLength bounds item names; names are used verbatim in error
// messages and reports, so they stay short.
const MaxNameLength = 255

// Common errors
var (
	ErrEmptyName       = errors.New("item name cannot be empty")
	ErrNameTooLong     = errors.New("item name exceeds maximum length")
	ErrNegativeBalance = errors.New("initial balance cannot be negative")
)

// Item represents an inventory item with its current stock balance.
// Balance is never negative; it is mutated only by the transaction engine
// while the item's row lock is held.
type Item struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is the engine's view of an item after a committed movement.
type Snapshot struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Balance int64     `json:"balance"`
}

// ErrInsufficientStock indicates a decrease larger than the current balance.
// Carries the item name for human-readable error messages.
type ErrInsufficientStock struct {
	Name string
}

func (e ErrInsufficientStock) Error() string {
	return "insufficient stock for product " + e.Name
}

// Is matches any ErrInsufficientStock when the target carries no name
func (e ErrInsufficientStock) Is(target error) bool {
	t, ok := target.(ErrInsufficientStock)
	if !ok {
		return false
	}
	if t.Name == "" {
		return true
	}
	return e.Name == t.Name
}

// NewItem creates a new item with the given name and initial balance
func NewItem(name string, initialBalance int64) (*Item, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if initialBalance < 0 {
		return nil, ErrNegativeBalance
	}

	now := time.Now()
	return &Item{
		ID:        uuid.New(),
		Name:      name,
		Balance:   initialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Snapshot returns the item's current state for API responses
func (i *Item) Snapshot() Snapshot {
	return Snapshot{
		ID:      i.ID,
		Name:    i.Name,
		Balance: i.Balance,
	}
}

// CanDecrease reports whether the current balance covers a decrease of quantity
func (i *Item) CanDecrease(quantity int64) bool {
	return i.Balance >= quantity
}
