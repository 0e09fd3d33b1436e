package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/mirzalazuardi/inventory-page/internal/data/memory"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newTestEngine(t *testing.T, store *memory.Store) *Engine {
	t.Helper()
	return New(store, store.Items(), store.Movements(), store.Outbox(), Config{LockTimeout: time.Second}, newTestLogger())
}

func seedItem(t *testing.T, store *memory.Store, name string, balance int64) *item.Item {
	t.Helper()
	it, err := item.NewItem(name, balance)
	require.NoError(t, err)
	require.NoError(t, store.Items().Create(context.Background(), it))
	return it
}

func TestEngine_Submit_Increase(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, store)
	apple := seedItem(t, store, "Apple", 50)

	snap, err := e.Submit(context.Background(), apple.ID, 20, movement.DirectionIncrease)
	require.NoError(t, err)

	assert.Equal(t, apple.ID, snap.ID)
	assert.Equal(t, "Apple", snap.Name)
	assert.Equal(t, int64(70), snap.Balance)
	assert.Equal(t, 1, store.MovementCount())
	assert.Equal(t, 1, store.OutboxCount())

	records, total, err := store.Movements().Query(context.Background(), movement.Filter{}, movement.DefaultSort(), movement.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(20), records[0].Quantity)
	assert.Equal(t, movement.DirectionIncrease, records[0].Direction)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestEngine_Submit_Decrease(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, store)
	apple := seedItem(t, store, "Apple", 50)

	snap, err := e.Submit(context.Background(), apple.ID, 30, movement.DirectionDecrease)
	require.NoError(t, err)
	assert.Equal(t, int64(20), snap.Balance)
}

func TestEngine_Submit_InsufficientStock(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, store)
	orange := seedItem(t, store, "Orange", 5)

	snap, err := e.Submit(context.Background(), orange.ID, 10, movement.DirectionDecrease)
	assert.Nil(t, snap)

	var insufficient item.ErrInsufficientStock
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Orange", insufficient.Name)
	assert.EqualError(t, err, "insufficient stock for product Orange")

	// Nothing was mutated.
	current, err := store.Items().GetByID(context.Background(), orange.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), current.Balance)
	assert.Zero(t, store.MovementCount())
	assert.Zero(t, store.OutboxCount())
}

func TestEngine_Submit_DecreaseFromZero(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, store)
	grape := seedItem(t, store, "Grape", 0)

	_, err := e.Submit(context.Background(), grape.ID, 1, movement.DirectionDecrease)
	assert.ErrorIs(t, err, item.ErrInsufficientStock{})

	current, getErr := store.Items().GetByID(context.Background(), grape.ID)
	require.NoError(t, getErr)
	assert.Equal(t, int64(0), current.Balance)
}

func TestEngine_Submit_ValidationOrder(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, store)

	// Quantity is checked before existence: zero quantity against an
	// unknown item must fail with the quantity error.
	_, err := e.Submit(context.Background(), uuid.New(), 0, movement.DirectionIncrease)
	assert.ErrorIs(t, err, movement.ErrInvalidQuantity)

	// Direction is checked before existence too.
	_, err = e.Submit(context.Background(), uuid.New(), 5, movement.Direction("sideways"))
	assert.ErrorIs(t, err, movement.ErrInvalidDirection)
}

func TestEngine_Submit_ItemNotFound(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, store)

	_, err := e.Submit(context.Background(), uuid.New(), 5, movement.DirectionIncrease)
	assert.ErrorIs(t, err, item.ErrItemNotFound{})
	assert.Zero(t, store.MovementCount())
}

type failingMovementLog struct {
	movement.Repository
}

func (f *failingMovementLog) Append(ctx context.Context, m *movement.Movement) error {
	return errors.New("append failed: disk full")
}

func (f *failingMovementLog) WithTx(tx pgx.Tx) movement.Repository {
	return f
}

func TestEngine_Submit_StorageFailureRollsBack(t *testing.T) {
	store := memory.NewStore()
	apple := seedItem(t, store, "Apple", 50)

	e := New(store, store.Items(), &failingMovementLog{store.Movements()}, store.Outbox(), Config{LockTimeout: time.Second}, newTestLogger())

	_, err := e.Submit(context.Background(), apple.ID, 20, movement.DirectionIncrease)
	require.Error(t, err)

	// Balance and log are exactly as they were before the call.
	current, getErr := store.Items().GetByID(context.Background(), apple.ID)
	require.NoError(t, getErr)
	assert.Equal(t, int64(50), current.Balance)
	assert.Zero(t, store.MovementCount())
	assert.Zero(t, store.OutboxCount())
}

func TestEngine_Submit_LockTimeout(t *testing.T) {
	store := memory.NewStore()
	apple := seedItem(t, store, "Apple", 50)

	e := New(store, store.Items(), store.Movements(), store.Outbox(), Config{LockTimeout: 30 * time.Millisecond}, newTestLogger())

	// Hold the item's lock so Submit cannot acquire it.
	release, err := e.locks.Acquire(context.Background(), apple.ID)
	require.NoError(t, err)
	defer release()

	_, err = e.Submit(context.Background(), apple.ID, 1, movement.DirectionDecrease)
	assert.ErrorIs(t, err, ErrLockTimeout)

	current, getErr := store.Items().GetByID(context.Background(), apple.ID)
	require.NoError(t, getErr)
	assert.Equal(t, int64(50), current.Balance)
	assert.Zero(t, store.MovementCount())
}

func TestEngine_Submit_NoLostUpdatesUnderContention(t *testing.T) {
	const n = 40

	t.Run("balance exactly covers all decreases", func(t *testing.T) {
		store := memory.NewStore()
		e := newTestEngine(t, store)
		it := seedItem(t, store, "Widget", n)

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.Submit(context.Background(), it.ID, 1, movement.DirectionDecrease)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}

		current, err := store.Items().GetByID(context.Background(), it.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), current.Balance)
		assert.Equal(t, n, store.MovementCount())
	})

	t.Run("balance one short leaves exactly one failure", func(t *testing.T) {
		store := memory.NewStore()
		e := newTestEngine(t, store)
		it := seedItem(t, store, "Widget", n-1)

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.Submit(context.Background(), it.ID, 1, movement.DirectionDecrease)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		failures := 0
		for err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, item.ErrInsufficientStock{})
				failures++
			}
		}
		assert.Equal(t, 1, failures)

		current, err := store.Items().GetByID(context.Background(), it.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), current.Balance)
		assert.Equal(t, n-1, store.MovementCount())
	})

	t.Run("movements on different items do not serialize", func(t *testing.T) {
		store := memory.NewStore()
		e := newTestEngine(t, store)
		a := seedItem(t, store, "Alpha", 100)
		b := seedItem(t, store, "Beta", 100)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			id := a.ID
			if i%2 == 1 {
				id = b.ID
			}
			wg.Add(1)
			go func(target uuid.UUID) {
				defer wg.Done()
				_, err := e.Submit(context.Background(), target, 2, movement.DirectionDecrease)
				assert.NoError(t, err)
			}(id)
		}
		wg.Wait()

		currentA, err := store.Items().GetByID(context.Background(), a.ID)
		require.NoError(t, err)
		currentB, err := store.Items().GetByID(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(80), currentA.Balance)
		assert.Equal(t, int64(80), currentB.Balance)
	})
}

func TestEngine_Submit_BalanceEqualsSumOfCommittedMovements(t *testing.T) {
	store := memory.NewStore()
	e := newTestEngine(t, store)
	it := seedItem(t, store, "Gadget", 10)

	steps := []struct {
		qty int64
		dir movement.Direction
	}{
		{20, movement.DirectionIncrease},
		{5, movement.DirectionDecrease},
		{100, movement.DirectionDecrease}, // fails, must not count
		{7, movement.DirectionIncrease},
	}

	for _, s := range steps {
		_, _ = e.Submit(context.Background(), it.ID, s.qty, s.dir)
	}

	records, total, err := store.Movements().Query(context.Background(), movement.Filter{}, movement.Sort{Field: movement.SortByCreatedAt}, movement.Page{Number: 1, Size: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	sum := int64(10)
	for _, r := range records {
		sum += r.Delta()
	}

	current, err := store.Items().GetByID(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, sum, current.Balance)
	assert.GreaterOrEqual(t, current.Balance, int64(0))
}
