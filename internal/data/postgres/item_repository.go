// Package postgres provides PostgreSQL implementations of the domain
// repositories. The item repository owns the authoritative balance store;
// row locks taken here back the engine's critical section across processes.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
	"github.com/mirzalazuardi/inventory-page/internal/platform/persistence"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ItemRepository implements the item.Repository interface for PostgreSQL
type ItemRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewItemRepository creates a new PostgreSQL item repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewItemRepository(logger *slog.Logger, db *persistence.PostgresDB) item.Repository {
	return &ItemRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the balance write and
// the movement append commit atomically.
func (r *ItemRepository) WithTx(tx pgx.Tx) item.Repository {
	return &ItemRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new item. A duplicate name is reported as ErrDuplicateName.
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (id, name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query,
		it.ID,
		it.Name,
		it.Balance,
		it.CreatedAt,
		it.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return item.ErrDuplicateName{Name: it.Name}
		}
		r.logger.Error("Failed to create item", "error", err)
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by its ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `
		SELECT id, name, balance, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	var it item.Item
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&it.ID,
		&it.Name,
		&it.Balance,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrItemNotFound{ItemID: id}
		}
		r.logger.Error("Failed to get item", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &it, nil
}

// GetByName retrieves an item by name; returns nil, nil when absent
func (r *ItemRepository) GetByName(ctx context.Context, name string) (*item.Item, error) {
	query := `
		SELECT id, name, balance, created_at, updated_at
		FROM items
		WHERE name = $1
	`

	var it item.Item
	err := r.querier.QueryRow(ctx, query, name).Scan(
		&it.ID,
		&it.Name,
		&it.Balance,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get item by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get item by name: %w", err)
	}

	return &it, nil
}

// LockForUpdate obtains an exclusive row lock on the item and returns its
// current state. Must be used within a transaction; the lock holds until
// that transaction ends.
func (r *ItemRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `
		SELECT id, name, balance, created_at, updated_at
		FROM items
		WHERE id = $1
		FOR UPDATE
	`

	var it item.Item
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&it.ID,
		&it.Name,
		&it.Balance,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrItemNotFound{ItemID: id}
		}
		r.logger.Error("Failed to lock item for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock item for update: %w", err)
	}

	return &it, nil
}

// UpdateBalance writes the new balance for an item. Callers hold the row
// lock from LockForUpdate, so a plain write is race-free.
func (r *ItemRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	query := `
		UPDATE items
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, balance, id)
	if err != nil {
		r.logger.Error("Failed to update item balance", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update item balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return item.ErrItemNotFound{ItemID: id}
	}

	return nil
}

// Delete removes an item. The movements table references items with
// ON DELETE RESTRICT, so items with history are reported as referenced.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM items
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return item.ErrItemReferenced{ItemID: id}
		}
		r.logger.Error("Failed to delete item", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return item.ErrItemNotFound{ItemID: id}
	}

	return nil
}
