package handler

// CreateItemRequest represents a request to register a new inventory item
type CreateItemRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	InitialBalance int64  `json:"initial_balance" binding:"min=0"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateMovementRequest represents a request to record a stock movement.
// Type uses the wire values "in" and "out". Quantity and type carry no
// binding rules: the engine validates them in a fixed order and the
// transport must not preempt it.
type CreateMovementRequest struct {
	ItemID   string `json:"item_id" binding:"required,uuid"`
	Quantity int64  `json:"quantity"`
	Type     string `json:"type"`
}

// ItemBalanceResponse is the item state returned after a committed movement
type ItemBalanceResponse struct {
	ItemID  string `json:"item_id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// MovementResponse represents a movement record in API responses
type MovementResponse struct {
	ID          int64  `json:"id"`
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name"`
	Quantity    int64  `json:"quantity"`
	Type        string `json:"type"`
	ItemBalance int64  `json:"item_balance"`
	CreatedAt   string `json:"created_at"`
}

// MovementListResponse represents a page of movements in API responses
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
}

// PaginationParams represents pagination parameters for list endpoints.
// Out of range values are clamped by the service rather than rejected.
type PaginationParams struct {
	Page    int `form:"page,default=1"`
	PerPage int `form:"per_page"`
}
