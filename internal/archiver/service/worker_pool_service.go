package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mirzalazuardi/inventory-page/internal/domain/movement"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolArchivalService implements the ArchivalService interface
type WorkerPoolArchivalService struct {
	baseService ArchivalService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[int64]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolArchivalService(
	baseService ArchivalService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolArchivalService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolArchivalService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[int64]chan error),
	}, nil
}

// ArchiveMovement submits a movement to the worker pool for archival.
func (s *WorkerPoolArchivalService) ArchiveMovement(ctx context.Context, m *movement.Movement) error {
	s.logger.Info("Submitting movement to worker pool",
		"movement_id", m.ID,
		"item_id", m.ItemID.String(),
	)

	// Create a channel to receive the result of the archival
	resultChan := make(chan error, 1)

	movementID := m.ID
	s.mu.Lock()
	s.results[movementID] = resultChan
	s.mu.Unlock()

	// Create a copy of the movement to avoid data races
	movementCopy := *m

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		err := s.baseService.ArchiveMovement(ctx, &movementCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, movementID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, movementID)
		close(resultChan)
		s.mu.Unlock()

		s.logger.Error("Failed to submit movement to worker pool",
			"movement_id", m.ID,
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolArchivalService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolArchivalService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolArchivalService) Capacity() int {
	return s.pool.Cap()
}
