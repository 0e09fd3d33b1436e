package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/api/service"
	"github.com/mirzalazuardi/inventory-page/internal/domain/item"
)

// ItemHandler handles HTTP requests for item administration
type ItemHandler struct {
	itemService service.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(logger *slog.Logger, itemService service.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// Create handles registration of a new item, rejecting duplicate names
func (h *ItemHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	it, err := h.itemService.CreateItem(c.Request.Context(), req.Name, req.InitialBalance)
	if err != nil {
		var duplicateErr item.ErrDuplicateName
		if errors.As(err, &duplicateErr) {
			h.logger.Warn("Attempt to create item with duplicate name", "name", duplicateErr.Name)
			RespondConflict(c, "Item with this name already exists")
			return
		}
		if errors.Is(err, item.ErrEmptyName) || errors.Is(err, item.ErrNameTooLong) || errors.Is(err, item.ErrNegativeBalance) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create item", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapItemToResponse(it))
}

// GetByID retrieves an item by its ID, returning 404 if not found
func (h *ItemHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid item ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	it, err := h.itemService.GetItemByID(c.Request.Context(), id)
	if err != nil {
		var notFoundErr item.ErrItemNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Item not found")
			return
		}
		h.logger.Error("Failed to get item", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapItemToResponse(it))
}

// Delete removes an item. Items referenced by committed movements cannot
// be deleted; the log is immutable.
func (h *ItemHandler) Delete(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid item ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		var notFoundErr item.ErrItemNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Item not found")
			return
		}
		var referencedErr item.ErrItemReferenced
		if errors.As(err, &referencedErr) {
			RespondConflict(c, "Item has recorded movements and cannot be deleted")
			return
		}
		h.logger.Error("Failed to delete item", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// mapItemToResponse maps an item entity to an item response DTO
func mapItemToResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID.String(),
		Name:      it.Name,
		Balance:   it.Balance,
		CreatedAt: it.CreatedAt.Format(time.RFC3339),
		UpdatedAt: it.UpdatedAt.Format(time.RFC3339),
	}
}
