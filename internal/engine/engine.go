// Package engine is the sole entry point for balance-changing operations.
// It serializes movements per item, enforces the non-negative balance
// invariant inside the critical section, and commits the balance update,
// the log record, and the outbox event as one atomic unit.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/mirzalazuardi/inventory-page/internal/domain/outbox"
	"github.com/mirzalazuardi/inventory-page/internal/platform/persistence"
)

// ErrLockTimeout indicates the per-item lock could not be acquired in time.
// Nothing was mutated; the caller may retry.
var ErrLockTimeout = errors.New("timed out waiting for item lock")

// Config tunes engine behavior
type Config struct {
	// LockTimeout bounds the wait for the per-item lock; zero means the
	// caller's context is the only bound.
	LockTimeout time.Duration
}

// Engine orchestrates movement submission
type Engine struct {
	db          persistence.TxRunner
	items       item.Repository
	movements   movement.Repository
	outbox      outbox.Repository
	locks       *KeyLock
	lockTimeout time.Duration
	logger      *slog.Logger
}

// New creates an engine over the given stores
func New(
	db persistence.TxRunner,
	items item.Repository,
	movements movement.Repository,
	outboxRepo outbox.Repository,
	cfg Config,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		db:          db,
		items:       items,
		movements:   movements,
		outbox:      outboxRepo,
		locks:       NewKeyLock(),
		lockTimeout: cfg.LockTimeout,
		logger:      logger,
	}
}

// Submit applies one stock movement to an item.
//
// Validation runs in a fixed order, first failure wins: quantity, then
// direction, then item existence, then (for decreases) balance
// sufficiency. The sufficiency check happens after the per-item lock is
// held, inside the same transaction as the mutation, so no interleaving
// can drive the balance negative. On any failure neither the balance nor
// the movement log is changed.
func (e *Engine) Submit(ctx context.Context, itemID uuid.UUID, quantity int64, direction movement.Direction) (*item.Snapshot, error) {
	mv, err := movement.New(itemID, quantity, direction)
	if err != nil {
		return nil, err
	}

	lockCtx := ctx
	if e.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, e.lockTimeout)
		defer cancel()
	}

	release, err := e.locks.Acquire(lockCtx, itemID)
	if err != nil {
		if ctx.Err() == nil {
			e.logger.Warn("Item lock acquisition timed out", "item_id", itemID.String())
			return nil, ErrLockTimeout
		}
		return nil, err
	}
	defer release()

	var snap *item.Snapshot
	err = e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		itemsTx := e.items.WithTx(tx)

		it, err := itemsTx.LockForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		if direction == movement.DirectionDecrease && !it.CanDecrease(quantity) {
			return item.ErrInsufficientStock{Name: it.Name}
		}

		newBalance := it.Balance + mv.Delta()
		if err := itemsTx.UpdateBalance(ctx, itemID, newBalance); err != nil {
			return fmt.Errorf("failed to update balance for item %s: %w", itemID.String(), err)
		}

		if err := e.movements.WithTx(tx).Append(ctx, mv); err != nil {
			return fmt.Errorf("failed to append movement for item %s: %w", itemID.String(), err)
		}

		msg, err := outbox.NewMessage(mv)
		if err != nil {
			return fmt.Errorf("failed to build outbox message for movement %d: %w", mv.ID, err)
		}
		if err := e.outbox.WithTx(tx).Create(ctx, msg); err != nil {
			return fmt.Errorf("failed to create outbox message for movement %d: %w", mv.ID, err)
		}

		snap = &item.Snapshot{ID: it.ID, Name: it.Name, Balance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Movement committed",
		"movement_id", mv.ID,
		"item_id", itemID.String(),
		"direction", string(direction),
		"quantity", quantity,
		"balance", snap.Balance,
	)
	return snap, nil
}
