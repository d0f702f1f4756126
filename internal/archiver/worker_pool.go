package archiver

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/KOlivier2119/SecureBank/internal/config"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

// WorkerPoolArchivingService fans archive writes out over an ants pool so a
// slow archive write never blocks the consumer loop for long.
type WorkerPoolArchivingService struct {
	base   ArchivingService
	pool   *ants.Pool
	logger *slog.Logger
}

func NewWorkerPoolArchivingService(
	base ArchivingService,
	cfg config.WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolArchivingService, error) {
	pool, err := ants.NewPool(cfg.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolArchivingService{
		base:   base,
		pool:   pool,
		logger: logger,
	}, nil
}

// Archive submits the record to the pool and waits for the result, so the
// caller still learns whether the write succeeded.
func (s *WorkerPoolArchivingService) Archive(ctx context.Context, record *transaction.Transaction) error {
	resultChan := make(chan error, 1)

	recordCopy := *record
	err := s.pool.Submit(func() {
		resultChan <- s.base.Archive(ctx, &recordCopy)
		close(resultChan)
	})
	if err != nil {
		s.logger.Error("Failed to submit archive task to worker pool",
			"transaction_id", record.ID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown releases the worker pool
func (s *WorkerPoolArchivingService) Shutdown() {
	s.logger.Info("Shutting down archiver worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of busy workers
func (s *WorkerPoolArchivingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the pool capacity
func (s *WorkerPoolArchivingService) Capacity() int {
	return s.pool.Cap()
}
