package archiver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KOlivier2119/SecureBank/internal/data/mongo"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

// ArchivingService writes transaction records into the archive
type ArchivingService interface {
	Archive(ctx context.Context, record *transaction.Transaction) error
}

// TransactionStore is the write surface the service needs from the archive.
// Satisfied by mongo.ArchiveRepository.
type TransactionStore interface {
	Store(ctx context.Context, record *transaction.Transaction) error
}

type archivingService struct {
	store  TransactionStore
	logger *slog.Logger
}

// NewArchivingService creates the base service writing to the given store
func NewArchivingService(logger *slog.Logger, store TransactionStore) ArchivingService {
	return &archivingService{
		store:  store,
		logger: logger,
	}
}

// Archive stores the record. Replayed events hit an existing document and
// are treated as success so offsets still advance.
func (s *archivingService) Archive(ctx context.Context, record *transaction.Transaction) error {
	err := s.store.Store(ctx, record)
	if err != nil {
		if errors.As(err, &mongo.ErrAlreadyArchived{}) {
			s.logger.Debug("Transaction already archived, skipping",
				"transaction_id", record.ID.String(),
			)
			return nil
		}
		return fmt.Errorf("failed to archive transaction %s: %w", record.ID, err)
	}

	s.logger.Info("Archived transaction",
		"transaction_id", record.ID.String(),
		"account_id", record.AccountID.String(),
		"type", string(record.Type),
	)
	return nil
}
