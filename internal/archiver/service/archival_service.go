package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mirzalazuardi/inventory-page/internal/domain/archive"
	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
)

// ArchivalServiceImpl copies published movements into the archive store.
// The archive is a read model; the relational movement log stays
// authoritative.
type ArchivalServiceImpl struct {
	archiveRepo archive.Repository
	logger      *slog.Logger
}

// NewArchivalService creates a new archival service
func NewArchivalService(logger *slog.Logger, archiveRepo archive.Repository) *ArchivalServiceImpl {
	return &ArchivalServiceImpl{
		archiveRepo: archiveRepo,
		logger:      logger,
	}
}

// ArchiveMovement stores one movement in the archive. Events are delivered
// at least once, so an already-archived movement is treated as success.
func (s *ArchivalServiceImpl) ArchiveMovement(ctx context.Context, m *movement.Movement) error {
	entry := archive.NewEntry(m)

	if err := s.archiveRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, archive.ErrDuplicateEntry{}) {
			s.logger.Info("Movement already archived, skipping",
				"movement_id", m.ID,
				"item_id", m.ItemID.String(),
			)
			return nil
		}
		return fmt.Errorf("failed to archive movement %d: %w", m.ID, err)
	}

	s.logger.Info("Archived movement",
		"movement_id", m.ID,
		"item_id", m.ItemID.String(),
		"direction", m.Direction,
	)
	return nil
}
