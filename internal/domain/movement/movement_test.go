package movement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		wantErr  bool
	}{
		{"in", DirectionIncrease, false},
		{"out", DirectionDecrease, false},
		{"IN", "", true},
		{"increase", "", true},
		{"", "", true},
		{"sideways", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDirection(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDirection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDirection_Wire(t *testing.T) {
	assert.Equal(t, "in", DirectionIncrease.Wire())
	assert.Equal(t, "out", DirectionDecrease.Wire())
}

func TestNew(t *testing.T) {
	itemID := uuid.New()

	t.Run("valid movement", func(t *testing.T) {
		m, err := New(itemID, 20, DirectionIncrease)
		require.NoError(t, err)
		assert.Equal(t, itemID, m.ItemID)
		assert.Equal(t, int64(20), m.Quantity)
		assert.Equal(t, DirectionIncrease, m.Direction)
		assert.Zero(t, m.ID)
		assert.True(t, m.CreatedAt.IsZero())
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := New(itemID, 0, DirectionIncrease)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := New(itemID, -5, DirectionDecrease)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("quantity checked before direction", func(t *testing.T) {
		_, err := New(itemID, 0, Direction("bogus"))
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("invalid direction", func(t *testing.T) {
		_, err := New(itemID, 5, Direction("bogus"))
		assert.ErrorIs(t, err, ErrInvalidDirection)
	})
}

func TestMovement_Delta(t *testing.T) {
	inc := &Movement{Quantity: 10, Direction: DirectionIncrease}
	dec := &Movement{Quantity: 4, Direction: DirectionDecrease}

	assert.Equal(t, int64(10), inc.Delta())
	assert.Equal(t, int64(-4), dec.Delta())
}
