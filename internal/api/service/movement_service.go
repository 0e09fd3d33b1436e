package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/config"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
)

// MovementServiceImpl implements the MovementService interface. Writes go
// through the transaction engine; reads hit the movement log directly.
type MovementServiceImpl struct {
	engine       MovementSubmitter
	movementRepo movement.Repository
	queryCfg     config.QueryConfig
}

// NewMovementService creates a new movement service
func NewMovementService(engine MovementSubmitter, movementRepo movement.Repository, queryCfg config.QueryConfig) MovementService {
	return &MovementServiceImpl{
		engine:       engine,
		movementRepo: movementRepo,
		queryCfg:     queryCfg,
	}
}

// SubmitMovement delegates to the engine, which validates, locks the item
// and commits the balance change together with the log append
func (s *MovementServiceImpl) SubmitMovement(ctx context.Context, itemID uuid.UUID, quantity int64, direction movement.Direction) (*item.Snapshot, error) {
	return s.engine.Submit(ctx, itemID, quantity, direction)
}

// GetMovementByID retrieves a single committed movement
func (s *MovementServiceImpl) GetMovementByID(ctx context.Context, id int64) (*movement.Record, error) {
	return s.movementRepo.GetByID(ctx, id)
}

// QueryMovements clamps the page request to the configured limits, runs
// the query and derives pagination metadata from the total count
func (s *MovementServiceImpl) QueryMovements(ctx context.Context, filter movement.Filter, sort movement.Sort, page movement.Page) ([]*movement.Record, movement.PageInfo, error) {
	page = page.Clamp(s.queryCfg.DefaultPageSize, s.queryCfg.MaxPageSize)

	records, total, err := s.movementRepo.Query(ctx, filter, sort, page)
	if err != nil {
		return nil, movement.PageInfo{}, err
	}

	return records, movement.NewPageInfo(page, total), nil
}
