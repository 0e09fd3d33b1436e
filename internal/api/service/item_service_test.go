package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, it *item.Item) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemRepository) GetByName(ctx context.Context, name string) (*item.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) WithTx(tx pgx.Tx) item.Repository {
	args := m.Called(tx)
	return args.Get(0).(item.Repository)
}

func TestItemService_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockItemRepository)
		svc := NewItemService(mockRepo)

		mockRepo.On("GetByName", ctx, "Apple").Return(nil, nil)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(it *item.Item) bool {
			return it.Name == "Apple" && it.Balance == 50 && it.ID != uuid.Nil
		})).Return(nil)

		created, err := svc.CreateItem(ctx, "Apple", 50)

		require.NoError(t, err)
		assert.Equal(t, "Apple", created.Name)
		assert.Equal(t, int64(50), created.Balance)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		mockRepo := new(MockItemRepository)
		svc := NewItemService(mockRepo)

		existing := &item.Item{ID: uuid.New(), Name: "Apple", Balance: 10}
		mockRepo.On("GetByName", ctx, "Apple").Return(existing, nil)

		created, err := svc.CreateItem(ctx, "Apple", 50)

		assert.Nil(t, created)
		assert.ErrorIs(t, err, item.ErrDuplicateName{Name: "Apple"})
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("EmptyName", func(t *testing.T) {
		mockRepo := new(MockItemRepository)
		svc := NewItemService(mockRepo)

		mockRepo.On("GetByName", ctx, "").Return(nil, nil)

		created, err := svc.CreateItem(ctx, "", 50)

		assert.Nil(t, created)
		assert.ErrorIs(t, err, item.ErrEmptyName)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("NegativeInitialBalance", func(t *testing.T) {
		mockRepo := new(MockItemRepository)
		svc := NewItemService(mockRepo)

		mockRepo.On("GetByName", ctx, "Apple").Return(nil, nil)

		created, err := svc.CreateItem(ctx, "Apple", -1)

		assert.Nil(t, created)
		assert.ErrorIs(t, err, item.ErrNegativeBalance)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := new(MockItemRepository)
		svc := NewItemService(mockRepo)

		mockRepo.On("GetByName", ctx, "Apple").Return(nil, nil)
		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		created, err := svc.CreateItem(ctx, "Apple", 50)

		assert.Nil(t, created)
		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestItemService_GetItemByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	svc := NewItemService(mockRepo)

	itemID := uuid.New()
	expected := &item.Item{ID: itemID, Name: "Orange", Balance: 5}
	mockRepo.On("GetByID", ctx, itemID).Return(expected, nil)

	got, err := svc.GetItemByID(ctx, itemID)

	require.NoError(t, err)
	assert.Equal(t, expected, got)
	mockRepo.AssertExpectations(t)
}

func TestItemService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	svc := NewItemService(mockRepo)

	itemID := uuid.New()
	mockRepo.On("Delete", ctx, itemID).Return(item.ErrItemReferenced{ItemID: itemID})

	err := svc.DeleteItem(ctx, itemID)

	assert.ErrorIs(t, err, item.ErrItemReferenced{})
	mockRepo.AssertExpectations(t)
}
