package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a committed movement for reliable event publishing. It is
// written in the same database transaction as the movement itself, so an
// event exists if and only if its movement was committed.
type Message struct {
	ID            int64           `json:"id"`
	MovementID    int64           `json:"movement_id"`
	ItemID        uuid.UUID       `json:"item_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps a committed movement into a pending outbox message
func NewMessage(m *movement.Movement) (*Message, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	return &Message{
		MovementID: m.ID,
		ItemID:     m.ItemID,
		Payload:    payload,
		Status:     StatusPending,
		Attempts:   0,
		CreatedAt:  time.Now(),
	}, nil
}

// GetMovement extracts the movement from the payload
func (m *Message) GetMovement() (*movement.Movement, error) {
	var mv movement.Movement
	if err := json.Unmarshal(m.Payload, &mv); err != nil {
		return nil, err
	}
	return &mv, nil
}
