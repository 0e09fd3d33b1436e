package memory

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
)

type movementRepository struct {
	store *Store
}

func (r *movementRepository) WithTx(tx pgx.Tx) movement.Repository {
	return r
}

func (r *movementRepository) Append(ctx context.Context, m *movement.Movement) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.nextMovementID
	s.nextMovementID++
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}

	cp := *m
	s.movements = append(s.movements, &cp)
	return nil
}

func (r *movementRepository) Query(ctx context.Context, filter movement.Filter, st movement.Sort, page movement.Page) ([]*movement.Record, int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*movement.Movement
	for _, mv := range s.movements {
		ok := true
		for _, p := range filter.Predicates {
			if !p.Matches(mv) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, mv)
		}
	}

	total := int64(len(matched))

	sort.SliceStable(matched, func(i, j int) bool {
		return st.Less(matched[i], matched[j])
	})

	start := page.Offset()
	if start >= len(matched) {
		return []*movement.Record{}, total, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}

	records := make([]*movement.Record, 0, end-start)
	for _, mv := range matched[start:end] {
		records = append(records, r.toRecord(mv))
	}
	return records, total, nil
}

func (r *movementRepository) GetByID(ctx context.Context, id int64) (*movement.Record, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, mv := range s.movements {
		if mv.ID == id {
			return r.toRecord(mv), nil
		}
	}
	return nil, movement.ErrMovementNotFound{ID: id}
}

// toRecord joins the movement with the item's current state; callers hold s.mu
func (r *movementRepository) toRecord(mv *movement.Movement) *movement.Record {
	rec := &movement.Record{Movement: *mv}
	if it, ok := r.store.items[mv.ItemID]; ok {
		rec.ItemName = it.Name
		rec.ItemBalance = it.Balance
	}
	return rec
}
