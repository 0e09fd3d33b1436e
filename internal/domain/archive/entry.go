package archive

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
)

// Entry is an archived movement in the reporting store. The archive is an
// eventually consistent copy of the movement log fed from published events;
// the authoritative log stays in the relational database.
type Entry struct {
	ID         int64              `json:"movement_id" bson:"movement_id"`
	ItemID     uuid.UUID          `json:"item_id" bson:"item_id"`
	Quantity   int64              `json:"quantity" bson:"quantity"`
	Direction  movement.Direction `json:"direction" bson:"direction"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	ArchivedAt time.Time          `json:"archived_at" bson:"archived_at"`
}

// NewEntry builds an archive entry from a published movement
func NewEntry(m *movement.Movement) *Entry {
	return &Entry{
		ID:         m.ID,
		ItemID:     m.ItemID,
		Quantity:   m.Quantity,
		Direction:  m.Direction,
		CreatedAt:  m.CreatedAt,
		ArchivedAt: time.Now(),
	}
}

// ErrDuplicateEntry indicates the movement was already archived. Events may
// be delivered more than once; the archive treats redelivery as a no-op.
type ErrDuplicateEntry struct {
	MovementID int64
}

func (e ErrDuplicateEntry) Error() string {
	return "movement already archived: " + strconv.FormatInt(e.MovementID, 10)
}

// Is matches any ErrDuplicateEntry when the target carries no ID
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	if t.MovementID == 0 {
		return true
	}
	return e.MovementID == t.MovementID
}

// ErrEntryNotFound indicates a missing archive entry
type ErrEntryNotFound struct {
	MovementID int64
}

func (e ErrEntryNotFound) Error() string {
	return "archive entry not found for movement: " + strconv.FormatInt(e.MovementID, 10)
}

// Is matches any ErrEntryNotFound when the target carries no ID
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.MovementID == 0 {
		return true
	}
	return e.MovementID == t.MovementID
}
