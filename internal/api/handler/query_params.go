package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
)

// quantityParams maps query parameter names to quantity operators
var quantityParams = map[string]movement.Op{
	"quantity":     movement.OpEq,
	"quantity_gt":  movement.OpGt,
	"quantity_lt":  movement.OpLt,
	"quantity_gte": movement.OpGte,
	"quantity_lte": movement.OpLte,
}

// createdAtParams maps query parameter names to timestamp operators
var createdAtParams = map[string]movement.Op{
	"created_at_gt":  movement.OpGt,
	"created_at_lt":  movement.OpLt,
	"created_at_gte": movement.OpGte,
	"created_at_lte": movement.OpLte,
}

// routeParams are the non-filter query parameters the listing endpoints accept
var routeParams = map[string]struct{}{
	"item_id":  {},
	"type":     {},
	"sort_by":  {},
	"order":    {},
	"page":     {},
	"per_page": {},
}

// parseMovementFilter builds a typed filter from the request's query
// parameters. Unrecognized parameter names are rejected rather than
// ignored, so a misspelled filter cannot silently widen a query; known
// parameters with unparseable values are rejected too.
func parseMovementFilter(c *gin.Context) (movement.Filter, error) {
	for param := range c.Request.URL.Query() {
		if _, ok := routeParams[param]; ok {
			continue
		}
		if _, ok := quantityParams[param]; ok {
			continue
		}
		if _, ok := createdAtParams[param]; ok {
			continue
		}
		return movement.Filter{}, movement.ErrUnknownField{Field: param}
	}

	var filter movement.Filter

	if raw := c.Query("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return movement.Filter{}, movement.ErrInvalidFilterValue{Field: "item_id", Value: raw}
		}
		filter.Predicates = append(filter.Predicates, movement.ItemIDEquals(id))
	}

	if raw := c.Query("type"); raw != "" {
		direction, err := movement.ParseDirection(raw)
		if err != nil {
			return movement.Filter{}, movement.ErrInvalidFilterValue{Field: "type", Value: raw}
		}
		p, err := movement.NewPredicate(movement.FieldDirection, movement.OpEq, direction)
		if err != nil {
			return movement.Filter{}, err
		}
		filter.Predicates = append(filter.Predicates, p)
	}

	for param, op := range quantityParams {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return movement.Filter{}, movement.ErrInvalidFilterValue{Field: param, Value: raw}
		}
		p, err := movement.NewPredicate(movement.FieldQuantity, op, value)
		if err != nil {
			return movement.Filter{}, err
		}
		filter.Predicates = append(filter.Predicates, p)
	}

	for param, op := range createdAtParams {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		value, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return movement.Filter{}, movement.ErrInvalidFilterValue{Field: param, Value: raw}
		}
		p, err := movement.NewPredicate(movement.FieldCreatedAt, op, value)
		if err != nil {
			return movement.Filter{}, err
		}
		filter.Predicates = append(filter.Predicates, p)
	}

	return filter, nil
}

// parseMovementSort reads sort_by and order query parameters. With neither
// present the listing defaults to newest first.
func parseMovementSort(c *gin.Context) (movement.Sort, error) {
	sortBy := c.Query("sort_by")
	order := c.Query("order")

	if sortBy == "" {
		if order != "" {
			return movement.NewSort(string(movement.SortByCreatedAt), order)
		}
		return movement.DefaultSort(), nil
	}

	return movement.NewSort(sortBy, order)
}
