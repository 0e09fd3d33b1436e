package outbox

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	mv := &movement.Movement{
		ID:        42,
		ItemID:    uuid.New(),
		Quantity:  7,
		Direction: movement.DirectionDecrease,
		CreatedAt: time.Now().UTC(),
	}

	msg, err := NewMessage(mv)
	require.NoError(t, err)

	assert.Equal(t, int64(42), msg.MovementID)
	assert.Equal(t, mv.ItemID, msg.ItemID)
	assert.Equal(t, StatusPending, msg.Status)
	assert.Zero(t, msg.Attempts)

	decoded, err := msg.GetMovement()
	require.NoError(t, err)
	assert.Equal(t, mv.ID, decoded.ID)
	assert.Equal(t, mv.Quantity, decoded.Quantity)
	assert.Equal(t, mv.Direction, decoded.Direction)
}

func TestMessage_GetMovement_BadPayload(t *testing.T) {
	msg := &Message{Payload: []byte("{not json")}
	_, err := msg.GetMovement()
	assert.Error(t, err)
}
