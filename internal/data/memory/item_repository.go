package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
)

type itemRepository struct {
	store *Store
}

func (r *itemRepository) WithTx(tx pgx.Tx) item.Repository {
	// The store serializes mutations itself; no per-transaction handle needed.
	return r
}

func (r *itemRepository) Create(ctx context.Context, it *item.Item) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Name == it.Name {
			return item.ErrDuplicateName{Name: it.Name}
		}
	}

	cp := *it
	s.items[it.ID] = &cp
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, item.ErrItemNotFound{ItemID: id}
	}
	cp := *it
	return &cp, nil
}

func (r *itemRepository) GetByName(ctx context.Context, name string) (*item.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.items {
		if it.Name == name {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

// LockForUpdate returns the current state. Exclusion is provided by the
// engine's per-item lock together with the store's transaction mutex.
func (r *itemRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return item.ErrItemNotFound{ItemID: id}
	}
	it.Balance = balance
	it.UpdatedAt = s.now()
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return item.ErrItemNotFound{ItemID: id}
	}
	for _, mv := range s.movements {
		if mv.ItemID == id {
			return item.ErrItemReferenced{ItemID: id}
		}
	}
	delete(s.items, id)
	return nil
}
