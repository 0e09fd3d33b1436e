package service

import (
	"context"

	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
)

// ArchivalService writes published movements into the reporting archive.
type ArchivalService interface {
	ArchiveMovement(ctx context.Context, m *movement.Movement) error
}
