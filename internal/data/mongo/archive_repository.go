// Package mongo implements the transaction archive, a query-oriented copy
// of the ledger fed by the event stream. PostgreSQL stays authoritative;
// the archive exists for reporting reads that should not touch it.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
)

// ArchiveCollectionName is the collection holding archived transactions
const ArchiveCollectionName = "transaction_archive"

// ErrAlreadyArchived indicates the transaction is present in the archive.
// Consumers treat it as success since archiving is idempotent.
type ErrAlreadyArchived struct {
	TransactionID uuid.UUID
}

func (e ErrAlreadyArchived) Error() string {
	return "transaction already archived: " + e.TransactionID.String()
}

// ArchiveRepository stores and queries archived transaction records
type ArchiveRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewArchiveRepository creates a MongoDB-backed archive repository
func NewArchiveRepository(logger *slog.Logger, db *mongo.Database) *ArchiveRepository {
	return &ArchiveRepository{
		db:     db,
		logger: logger,
	}
}

// Store inserts a record unless it was archived before. The event stream
// delivers at least once, so replays surface as ErrAlreadyArchived.
func (r *ArchiveRepository) Store(ctx context.Context, record *transaction.Transaction) error {
	collection := r.db.Collection(ArchiveCollectionName)

	existing, err := r.GetByTransactionID(ctx, record.ID)
	if err != nil && !errors.Is(err, transaction.ErrTransactionNotFound{}) {
		r.logger.Error("Failed to check for archived transaction",
			"transaction_id", record.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for archived transaction: %w", err)
	}
	if existing != nil {
		return ErrAlreadyArchived{TransactionID: record.ID}
	}

	if _, err := collection.InsertOne(ctx, record); err != nil {
		r.logger.Error("Failed to archive transaction",
			"transaction_id", record.ID.String(),
			"error", err)
		return fmt.Errorf("failed to archive transaction: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves an archived record by the ledger transaction ID
func (r *ArchiveRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*transaction.Transaction, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	var record transaction.Transaction
	err := collection.FindOne(ctx, bson.M{"id": transactionID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get archived transaction",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get archived transaction: %w", err)
	}

	return &record, nil
}

// GetByAccountID retrieves a page of archived records for an account,
// newest first.
func (r *ArchiveRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		r.logger.Error("Failed to get archived transactions",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get archived transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*transaction.Transaction
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode archived transactions: %w", err)
	}

	return records, nil
}

// CountByAccountID counts archived records for an account
func (r *ArchiveRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"account_id": accountID})
	if err != nil {
		r.logger.Error("Failed to count archived transactions",
			"account_id", accountID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count archived transactions: %w", err)
	}

	return count, nil
}

// GetByTimeRange retrieves a page of archived records whose timestamp falls
// inside the window, newest first.
func (r *ArchiveRepository) GetByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*transaction.Transaction, error) {
	collection := r.db.Collection(ArchiveCollectionName)

	filter := bson.M{
		"timestamp": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get archived transactions by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to get archived transactions by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*transaction.Transaction
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode archived transactions: %w", err)
	}

	return records, nil
}
