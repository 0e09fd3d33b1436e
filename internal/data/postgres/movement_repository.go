package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/mirzalazuardi/inventory-page/internal/platform/persistence"
)

// MovementRepository implements the movement.Repository interface for
// PostgreSQL. The stock_movements table is append-only: this type issues
// no UPDATE or DELETE statements against it.
type MovementRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewMovementRepository creates a new PostgreSQL movement repository
func NewMovementRepository(logger *slog.Logger, db *persistence.PostgresDB) movement.Repository {
	return &MovementRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so appends commit
// together with the balance write they accompany.
func (r *MovementRepository) WithTx(tx pgx.Tx) movement.Repository {
	return &MovementRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Append stores a new movement and assigns its commit-ordered ID
func (r *MovementRepository) Append(ctx context.Context, m *movement.Movement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO stock_movements (item_id, quantity, direction, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		m.ItemID,
		m.Quantity,
		m.Direction,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		r.logger.Error("Failed to append movement", "item_id", m.ItemID.String(), "error", err)
		return fmt.Errorf("failed to append movement: %w", err)
	}

	return nil
}

// columns maps query model fields to SQL columns; both sets are closed, so
// a miss here is a programming error, not user input.
var columns = map[movement.Field]string{
	movement.FieldItemID:    "m.item_id",
	movement.FieldDirection: "m.direction",
	movement.FieldQuantity:  "m.quantity",
	movement.FieldCreatedAt: "m.created_at",
}

var sortColumns = map[movement.SortField]string{
	movement.SortByQuantity:  "m.quantity",
	movement.SortByCreatedAt: "m.created_at",
}

var operators = map[movement.Op]string{
	movement.OpEq:  "=",
	movement.OpGt:  ">",
	movement.OpLt:  "<",
	movement.OpGte: ">=",
	movement.OpLte: "<=",
}

// Query retrieves the page of records matching the filter plus the total
// matching count. Records are joined with the item's current name and
// balance; only committed rows are ever visible to this read.
func (r *MovementRepository) Query(ctx context.Context, filter movement.Filter, sort movement.Sort, page movement.Page) ([]*movement.Record, int64, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, 0, err
	}

	countQuery := "SELECT COUNT(*) FROM stock_movements m" + where
	var total int64
	if err := r.querier.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count movements", "error", err)
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	sortCol, ok := sortColumns[sort.Field]
	if !ok {
		return nil, 0, movement.ErrInvalidSortField{Field: string(sort.Field)}
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT m.id, m.item_id, m.quantity, m.direction, m.created_at, i.name, i.balance
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id%s
		ORDER BY %s %s, m.id ASC
		LIMIT $%d OFFSET $%d`,
		where, sortCol, dir, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := r.querier.Query(ctx, selectQuery, args...)
	if err != nil {
		r.logger.Error("Failed to query movements", "error", err)
		return nil, 0, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	records := make([]*movement.Record, 0, page.Size)
	for rows.Next() {
		var rec movement.Record
		err := rows.Scan(
			&rec.ID,
			&rec.ItemID,
			&rec.Quantity,
			&rec.Direction,
			&rec.CreatedAt,
			&rec.ItemName,
			&rec.ItemBalance,
		)
		if err != nil {
			r.logger.Error("Failed to scan movement record", "error", err)
			return nil, 0, fmt.Errorf("failed to scan movement record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read movement records: %w", err)
	}

	return records, total, nil
}

// GetByID retrieves a single movement joined with its item
func (r *MovementRepository) GetByID(ctx context.Context, id int64) (*movement.Record, error) {
	query := `
		SELECT m.id, m.item_id, m.quantity, m.direction, m.created_at, i.name, i.balance
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		WHERE m.id = $1
	`

	var rec movement.Record
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.ItemID,
		&rec.Quantity,
		&rec.Direction,
		&rec.CreatedAt,
		&rec.ItemName,
		&rec.ItemBalance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, movement.ErrMovementNotFound{ID: id}
		}
		r.logger.Error("Failed to get movement", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}

	return &rec, nil
}

// buildWhere compiles filter predicates into a WHERE clause with
// positional arguments. Fields and operators come from closed sets, so
// only argument values ever reach the database as parameters.
func buildWhere(filter movement.Filter) (string, []interface{}, error) {
	if len(filter.Predicates) == 0 {
		return "", nil, nil
	}

	conditions := make([]string, 0, len(filter.Predicates))
	args := make([]interface{}, 0, len(filter.Predicates))
	for _, p := range filter.Predicates {
		col, ok := columns[p.Field]
		if !ok {
			return "", nil, movement.ErrUnknownField{Field: string(p.Field)}
		}
		op, ok := operators[p.Op]
		if !ok {
			return "", nil, movement.ErrUnknownOperator{Field: string(p.Field), Operator: string(p.Op)}
		}
		args = append(args, p.Value)
		conditions = append(conditions, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}
