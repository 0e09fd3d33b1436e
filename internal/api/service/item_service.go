package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
)

// ItemServiceImpl implements the ItemService interface
type ItemServiceImpl struct {
	itemRepo item.Repository
}

// NewItemService creates a new item service
func NewItemService(itemRepo item.Repository) ItemService {
	return &ItemServiceImpl{
		itemRepo: itemRepo,
	}
}

// CreateItem registers a new item, checking for duplicate names first.
// The unique constraint on the name column backs this check up.
func (s *ItemServiceImpl) CreateItem(ctx context.Context, name string, initialBalance int64) (*item.Item, error) {
	existing, err := s.itemRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, item.ErrDuplicateName{Name: name}
	}

	it, err := item.NewItem(name, initialBalance)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Create(ctx, it); err != nil {
		return nil, err
	}

	return it, nil
}

// GetItemByID retrieves an item by its ID, returns ErrItemNotFound if absent
func (s *ItemServiceImpl) GetItemByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// DeleteItem removes an item; items referenced by movements are kept and
// reported as ErrItemReferenced
func (s *ItemServiceImpl) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}
