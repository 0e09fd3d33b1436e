package movement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Field identifies a filterable column. The set is closed: anything
// outside it is rejected rather than silently ignored.
type Field string

const (
	FieldItemID    Field = "item_id"
	FieldDirection Field = "direction"
	FieldQuantity  Field = "quantity"
	FieldCreatedAt Field = "created_at"
)

// Op is a comparison operator usable in a filter predicate
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpLt  Op = "lt"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// allowedOps maps each filterable field to its admissible operators
var allowedOps = map[Field][]Op{
	FieldItemID:    {OpEq},
	FieldDirection: {OpEq},
	FieldQuantity:  {OpEq, OpGt, OpLt, OpGte, OpLte},
	FieldCreatedAt: {OpGt, OpLt, OpGte, OpLte},
}

// ErrUnknownField indicates a filter or sort field outside the closed set
type ErrUnknownField struct {
	Field string
}

func (e ErrUnknownField) Error() string {
	return "unknown query field: " + e.Field
}

// ErrUnknownOperator indicates an operator not admissible for the field
type ErrUnknownOperator struct {
	Field    string
	Operator string
}

func (e ErrUnknownOperator) Error() string {
	return fmt.Sprintf("operator %q is not supported for field %q", e.Operator, e.Field)
}

// ErrInvalidFilterValue indicates a filter value that cannot be parsed
// into the field's type
type ErrInvalidFilterValue struct {
	Field string
	Value string
}

func (e ErrInvalidFilterValue) Error() string {
	return fmt.Sprintf("invalid value %q for field %q", e.Value, e.Field)
}

// Predicate is one field/operator/value condition. Value is typed per
// field: uuid.UUID for item_id, Direction for direction, int64 for
// quantity, time.Time for created_at.
type Predicate struct {
	Field Field
	Op    Op
	Value interface{}
}

// Filter is a conjunction of predicates; an empty filter matches everything
type Filter struct {
	Predicates []Predicate
}

// NewPredicate validates field and operator against the closed sets and
// returns the typed predicate
func NewPredicate(field Field, op Op, value interface{}) (Predicate, error) {
	ops, ok := allowedOps[field]
	if !ok {
		return Predicate{}, ErrUnknownField{Field: string(field)}
	}
	for _, allowed := range ops {
		if op == allowed {
			return Predicate{Field: field, Op: op, Value: value}, nil
		}
	}
	return Predicate{}, ErrUnknownOperator{Field: string(field), Operator: string(op)}
}

// ItemIDEquals is a convenience constructor for the common item filter
func ItemIDEquals(id uuid.UUID) Predicate {
	return Predicate{Field: FieldItemID, Op: OpEq, Value: id}
}

// Matches evaluates the predicate against a movement. Used by the
// in-memory log; the SQL store compiles predicates into WHERE clauses.
func (p Predicate) Matches(m *Movement) bool {
	switch p.Field {
	case FieldItemID:
		id, ok := p.Value.(uuid.UUID)
		return ok && m.ItemID == id
	case FieldDirection:
		d, ok := p.Value.(Direction)
		return ok && m.Direction == d
	case FieldQuantity:
		v, ok := p.Value.(int64)
		return ok && compareInt64(m.Quantity, v, p.Op)
	case FieldCreatedAt:
		ts, ok := p.Value.(time.Time)
		return ok && compareTime(m.CreatedAt, ts, p.Op)
	default:
		return false
	}
}

func compareInt64(a, b int64, op Op) bool {
	switch op {
	case OpEq:
		return a == b
	case OpGt:
		return a > b
	case OpLt:
		return a < b
	case OpGte:
		return a >= b
	case OpLte:
		return a <= b
	default:
		return false
	}
}

func compareTime(a, b time.Time, op Op) bool {
	switch op {
	case OpGt:
		return a.After(b)
	case OpLt:
		return a.Before(b)
	case OpGte:
		return !a.Before(b)
	case OpLte:
		return !a.After(b)
	default:
		return false
	}
}

// SortField identifies a sortable column; the set is closed like Field
type SortField string

const (
	SortByQuantity  SortField = "quantity"
	SortByCreatedAt SortField = "created_at"
)

// ErrInvalidSortField indicates a sort key outside the closed set
type ErrInvalidSortField struct {
	Field string
}

func (e ErrInvalidSortField) Error() string {
	return "unsupported sort field: " + e.Field
}

// Sort is a single sort key plus direction. Ties are always broken by
// movement ID ascending so pagination stays deterministic.
type Sort struct {
	Field SortField
	Desc  bool
}

// NewSort validates the sort field and direction strings
func NewSort(field, order string) (Sort, error) {
	var sf SortField
	switch SortField(field) {
	case SortByQuantity:
		sf = SortByQuantity
	case SortByCreatedAt:
		sf = SortByCreatedAt
	default:
		return Sort{}, ErrInvalidSortField{Field: field}
	}

	switch order {
	case "", "asc":
		return Sort{Field: sf}, nil
	case "desc":
		return Sort{Field: sf, Desc: true}, nil
	default:
		return Sort{}, fmt.Errorf("unsupported sort order: %q", order)
	}
}

// DefaultSort orders movements newest first
func DefaultSort() Sort {
	return Sort{Field: SortByCreatedAt, Desc: true}
}

// Less compares two movements under the sort, applying the ID tiebreak
func (s Sort) Less(a, b *Movement) bool {
	switch s.Field {
	case SortByQuantity:
		if a.Quantity != b.Quantity {
			if s.Desc {
				return a.Quantity > b.Quantity
			}
			return a.Quantity < b.Quantity
		}
	case SortByCreatedAt:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if s.Desc {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

// Clamp normalizes the page request: page numbers below 1 become 1, a
// non-positive size falls back to defaultSize, and size is capped at maxSize.
func (p Page) Clamp(defaultSize, maxSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	return p
}

// Offset returns the number of records to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PageInfo is the pagination metadata returned alongside a result page
type PageInfo struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageInfo computes metadata for a clamped page and a total count
func NewPageInfo(page Page, total int64) PageInfo {
	totalPages := int(total) / page.Size
	if int(total)%page.Size > 0 {
		totalPages++
	}
	return PageInfo{
		Page:       page.Number,
		PerPage:    page.Size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
