package movement

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Repository is the append-only movement log with predicate/sort/paginated
// retrieval. Append must run inside the engine's commit transaction so a
// movement is never visible without its balance update.
type Repository interface {
	// Append stores a new movement, assigning its ID and CreatedAt.
	// Existing records are never overwritten or removed.
	Append(ctx context.Context, m *Movement) error

	// Query returns the page of records matching the filter under the
	// given sort, plus the total matching count. Records are joined with
	// the referenced item's current name and balance.
	Query(ctx context.Context, filter Filter, sort Sort, page Page) ([]*Record, int64, error)

	// GetByID retrieves a single movement record
	GetByID(ctx context.Context, id int64) (*Record, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrMovementNotFound indicates a missing movement record
type ErrMovementNotFound struct {
	ID int64
}

func (e ErrMovementNotFound) Error() string {
	return "stock movement not found: " + strconv.FormatInt(e.ID, 10)
}

// Is matches any ErrMovementNotFound when the target carries a zero ID
func (e ErrMovementNotFound) Is(target error) bool {
	t, ok := target.(ErrMovementNotFound)
	if !ok {
		return false
	}
	if t.ID == 0 {
		return true
	}
	return e.ID == t.ID
}
