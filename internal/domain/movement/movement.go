package movement

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidDirection = errors.New("unrecognized transaction type")
)

// Direction defines the two admissible movement directions
type Direction string

const (
	DirectionIncrease Direction = "INCREASE"
	DirectionDecrease Direction = "DECREASE"
)

// ParseDirection maps the wire-level strings "in"/"out" to a Direction.
// Any other value is rejected with ErrInvalidDirection.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "in":
		return DirectionIncrease, nil
	case "out":
		return DirectionDecrease, nil
	default:
		return "", ErrInvalidDirection
	}
}

// Valid reports whether d is one of the two recognized directions
func (d Direction) Valid() bool {
	return d == DirectionIncrease || d == DirectionDecrease
}

// Wire returns the transport-level representation ("in"/"out")
func (d Direction) Wire() string {
	if d == DirectionIncrease {
		return "in"
	}
	return "out"
}

// Movement is one immutable balance-changing event for an item. The ID is
// assigned by the store in commit order and doubles as a stable sort
// tiebreaker. Committed movements are never mutated or deleted.
type Movement struct {
	ID        int64     `json:"id" bson:"movement_id"`
	ItemID    uuid.UUID `json:"item_id" bson:"item_id"`
	Quantity  int64     `json:"quantity" bson:"quantity"`
	Direction Direction `json:"direction" bson:"direction"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Record is a movement joined with the referenced item's current state,
// the shape returned by the query service.
type Record struct {
	Movement
	ItemName    string `json:"item_name"`
	ItemBalance int64  `json:"item_balance"`
}

// New validates and builds an uncommitted movement. ID and CreatedAt are
// assigned by the log on append.
func New(itemID uuid.UUID, quantity int64, direction Direction) (*Movement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !direction.Valid() {
		return nil, ErrInvalidDirection
	}

	return &Movement{
		ItemID:    itemID,
		Quantity:  quantity,
		Direction: direction,
	}, nil
}

// Delta returns the signed balance change this movement applies
func (m *Movement) Delta() int64 {
	if m.Direction == DirectionIncrease {
		return m.Quantity
	}
	return -m.Quantity
}
