package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/api/service"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/mirzalazuardi/inventory-page/internal/engine"
)

// MovementHandler handles HTTP requests for stock movements
type MovementHandler struct {
	movementService service.MovementService
	logger          *slog.Logger
}

// NewMovementHandler creates a new movement handler
func NewMovementHandler(logger *slog.Logger, movementService service.MovementService) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
		logger:          logger,
	}
}

// Create records a stock movement. The response carries the item's balance
// as of this movement's commit.
func (h *MovementHandler) Create(c *gin.Context) {
	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	// An unrecognized type maps to the zero Direction; the engine rejects
	// it after the quantity check, preserving its validation order.
	direction, _ := movement.ParseDirection(req.Type)

	snap, err := h.movementService.SubmitMovement(c.Request.Context(), itemID, req.Quantity, direction)
	if err != nil {
		h.respondSubmitError(c, itemID, err)
		return
	}

	RespondCreated(c, ItemBalanceResponse{
		ItemID:  snap.ID.String(),
		Name:    snap.Name,
		Balance: snap.Balance,
	})
}

// respondSubmitError maps engine errors to HTTP status codes
func (h *MovementHandler) respondSubmitError(c *gin.Context, itemID uuid.UUID, err error) {
	switch {
	case errors.Is(err, movement.ErrInvalidQuantity), errors.Is(err, movement.ErrInvalidDirection):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, item.ErrItemNotFound{}):
		RespondNotFound(c, "Item not found")
	case errors.Is(err, item.ErrInsufficientStock{}):
		RespondInsufficientStock(c, err.Error())
	case errors.Is(err, engine.ErrLockTimeout):
		h.logger.Warn("Movement timed out waiting for item lock", "item_id", itemID.String())
		RespondBusy(c, "")
	default:
		h.logger.Error("Failed to submit movement", "item_id", itemID.String(), "error", err)
		RespondInternalError(c)
	}
}

// GetByID retrieves a single committed movement
func (h *MovementHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		RespondBadRequest(c, "Invalid movement ID")
		return
	}

	rec, err := h.movementService.GetMovementByID(c.Request.Context(), id)
	if err != nil {
		var notFoundErr movement.ErrMovementNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Movement not found")
			return
		}
		h.logger.Error("Failed to get movement", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapMovementToResponse(rec))
}

// List returns a filtered, sorted, paginated listing of movements
func (h *MovementHandler) List(c *gin.Context) {
	filter, err := parseMovementFilter(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	h.list(c, filter)
}

// ListByItemID returns the movement history of one item. Filters from the
// query string still apply on top of the item constraint.
func (h *MovementHandler) ListByItemID(c *gin.Context) {
	idParam := c.Param("id")
	itemID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	filter, err := parseMovementFilter(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	filter.Predicates = append(filter.Predicates, movement.ItemIDEquals(itemID))

	h.list(c, filter)
}

func (h *MovementHandler) list(c *gin.Context, filter movement.Filter) {
	sort, err := parseMovementSort(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	page := movement.Page{Number: pagination.Page, Size: pagination.PerPage}

	records, info, err := h.movementService.QueryMovements(c.Request.Context(), filter, sort, page)
	if err != nil {
		h.logger.Error("Failed to query movements", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]MovementResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapMovementToResponse(rec))
	}

	RespondWithPaginatedData(c, http.StatusOK, MovementListResponse{Movements: responses}, info)
}

// mapMovementToResponse maps a movement record to a response DTO
func mapMovementToResponse(rec *movement.Record) MovementResponse {
	return MovementResponse{
		ID:          rec.ID,
		ItemID:      rec.ItemID.String(),
		ItemName:    rec.ItemName,
		Quantity:    rec.Quantity,
		Type:        rec.Direction.Wire(),
		ItemBalance: rec.ItemBalance,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}
}
