// Package memory provides in-memory implementations of the domain
// repositories. They back the engine's concurrency tests and local
// experiments; production binaries wire the postgres implementations.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/mirzalazuardi/inventory-page/internal/domain/outbox"
	"github.com/mirzalazuardi/inventory-page/internal/platform/persistence"
)

// Store holds all state behind one mutex. Transactions are serialized by
// txMu; ExecuteTx snapshots the state up front and restores it when the
// function fails, giving the same all-or-nothing behavior as the SQL store.
type Store struct {
	mu             sync.RWMutex
	txMu           sync.Mutex
	items          map[uuid.UUID]*item.Item
	movements      []*movement.Movement
	nextMovementID int64
	messages       []*outbox.Message
	nextMessageID  int64
}

var _ persistence.TxRunner = (*Store)(nil)

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		items:          make(map[uuid.UUID]*item.Item),
		nextMovementID: 1,
		nextMessageID:  1,
	}
}

// Items returns the item repository view of the store
func (s *Store) Items() item.Repository {
	return &itemRepository{store: s}
}

// Movements returns the movement log view of the store
func (s *Store) Movements() movement.Repository {
	return &movementRepository{store: s}
}

// Outbox returns the outbox repository view of the store
func (s *Store) Outbox() outbox.Repository {
	return &outboxRepository{store: s}
}

// ExecuteTx serializes the mutation, restoring the prior state if fn fails
func (s *Store) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	backupItems := make(map[uuid.UUID]*item.Item, len(s.items))
	for id, it := range s.items {
		cp := *it
		backupItems[id] = &cp
	}
	backupMovements := len(s.movements)
	backupNextMovementID := s.nextMovementID
	backupMessages := len(s.messages)
	backupNextMessageID := s.nextMessageID
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.items = backupItems
		s.movements = s.movements[:backupMovements]
		s.nextMovementID = backupNextMovementID
		s.messages = s.messages[:backupMessages]
		s.nextMessageID = backupNextMessageID
		s.mu.Unlock()
		return err
	}

	return nil
}

// MovementCount reports the number of committed movements, for test assertions
func (s *Store) MovementCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movements)
}

// OutboxCount reports the number of outbox messages, for test assertions
func (s *Store) OutboxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func (s *Store) now() time.Time {
	return time.Now().UTC()
}
