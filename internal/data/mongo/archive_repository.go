package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mirzalazuardi/inventory-page/internal/domain/archive"
)

const (
	// ArchiveCollectionName is the name of the movement archive collection
	ArchiveCollectionName = "movement_archive"
)

// ArchiveRepository implements the archive.Repository interface for MongoDB
type ArchiveRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewArchiveRepository creates a new MongoDB movement archive repository
func NewArchiveRepository(logger *slog.Logger, db *mongo.Database) archive.Repository {
	return &ArchiveRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores an archive entry after checking for duplicates.
// Returns ErrDuplicateEntry if the movement was already archived, which
// callers treat as successful redelivery.
func (r *ArchiveRepository) Create(ctx context.Context, entry *archive.Entry) error {
	collection := r.db.Collection(ArchiveCollectionName)

	existing, err := r.GetByMovementID(ctx, entry.ID)
	if err != nil && !errors.Is(err, archive.ErrEntryNotFound{}) {
		r.logger.Error("Failed to check for existing archive entry",
			"movement_id", entry.ID,
			"error", err)
		return fmt.Errorf("failed to check for existing archive entry: %w", err)
	}

	if existing != nil {
		return archive.ErrDuplicateEntry{MovementID: entry.ID}
	}

	_, err = collection.InsertOne(ctx, entry)
	if err != nil {
		r.logger.Error("Failed to create archive entry",
			"movement_id", entry.ID,
			"error", err)
		return fmt.Errorf("failed to create archive entry: %w", err)
	}

	return nil
}

// GetByMovementID retrieves an archive entry by movement ID.
// Returns ErrEntryNotFound if the movement has not been archived.
func (r *ArchiveRepository) GetByMovementID(ctx context.Context, movementID int64) (*archive.Entry, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{"movement_id": movementID}
	var entry archive.Entry
	err := collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, archive.ErrEntryNotFound{MovementID: movementID}
		}
		r.logger.Error("Failed to get archive entry",
			"movement_id", movementID,
			"error", err)
		return nil, fmt.Errorf("failed to get archive entry: %w", err)
	}

	return &entry, nil
}

// GetByItemID retrieves paginated archive entries for an item.
// Results are sorted by movement creation time in descending order.
func (r *ArchiveRepository) GetByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*archive.Entry, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{"item_id": itemID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "movement_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get archive entries",
			"item_id", itemID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get archive entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*archive.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode archive entries",
			"item_id", itemID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode archive entries: %w", err)
	}

	return entries, nil
}

// CountByItemID counts the archived movements for an item
func (r *ArchiveRepository) CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{"item_id": itemID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count archive entries",
			"item_id", itemID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count archive entries: %w", err)
	}

	return count, nil
}

// GetByTimeRange retrieves paginated archive entries within the specified
// time window, newest first.
func (r *ArchiveRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*archive.Entry, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{
		"created_at": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "movement_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get archive entries by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get archive entries by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*archive.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode archive entries",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to decode archive entries: %w", err)
	}

	return entries, nil
}
