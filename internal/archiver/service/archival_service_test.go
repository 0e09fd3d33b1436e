package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/domain/archive"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockArchiveRepository mocks the archive repository
type MockArchiveRepository struct {
	mock.Mock
}

func (m *MockArchiveRepository) Create(ctx context.Context, entry *archive.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockArchiveRepository) GetByMovementID(ctx context.Context, movementID int64) (*archive.Entry, error) {
	args := m.Called(ctx, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*archive.Entry), args.Error(1)
}

func (m *MockArchiveRepository) GetByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*archive.Entry, error) {
	args := m.Called(ctx, itemID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*archive.Entry), args.Error(1)
}

func (m *MockArchiveRepository) CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArchiveRepository) GetByTimeRange(ctx context.Context, start, end time.Time, limit, offset int) ([]*archive.Entry, error) {
	args := m.Called(ctx, start, end, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*archive.Entry), args.Error(1)
}

func newTestMovement(id int64) *movement.Movement {
	return &movement.Movement{
		ID:        id,
		ItemID:    uuid.New(),
		Quantity:  15,
		Direction: movement.DirectionDecrease,
		CreatedAt: time.Now().UTC(),
	}
}

func TestArchivalService_ArchiveMovement(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewArchivalService(logger, mockRepo)

		m := newTestMovement(1)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *archive.Entry) bool {
			return e.ID == m.ID && e.ItemID == m.ItemID && !e.ArchivedAt.IsZero()
		})).Return(nil).Once()

		err := svc.ArchiveMovement(ctx, m)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate delivery treated as success", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewArchivalService(logger, mockRepo)

		m := newTestMovement(2)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(archive.ErrDuplicateEntry{MovementID: m.ID}).Once()

		err := svc.ArchiveMovement(ctx, m)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("store error propagates", func(t *testing.T) {
		mockRepo := &MockArchiveRepository{}
		svc := NewArchivalService(logger, mockRepo)

		m := newTestMovement(3)
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()

		err := svc.ArchiveMovement(ctx, m)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to archive movement 3")
		mockRepo.AssertExpectations(t)
	})
}
