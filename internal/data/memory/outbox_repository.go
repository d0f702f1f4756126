package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KOlivier2119/SecureBank/internal/domain/outbox"
)

// OutboxRepository implements outbox.Repository against a Store
type OutboxRepository struct {
	store *Store
	inTx  bool
}

func (r *OutboxRepository) WithTx(pgx.Tx) outbox.Repository {
	return &OutboxRepository{store: r.store, inTx: true}
}

func (r *OutboxRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *OutboxRepository) Create(_ context.Context, message *outbox.Message) error {
	defer r.lock()()

	stored := *message
	stored.ID = r.store.nextOutboxID
	r.store.nextOutboxID++
	r.store.outbox = append(r.store.outbox, &stored)
	message.ID = stored.ID
	return nil
}

func (r *OutboxRepository) GetPending(_ context.Context, limit int) ([]*outbox.Message, error) {
	defer r.lock()()

	var pending []*outbox.Message
	for _, msg := range r.store.outbox {
		if msg.Status == outbox.StatusPending {
			copied := *msg
			pending = append(pending, &copied)
			if len(pending) == limit {
				break
			}
		}
	}
	return pending, nil
}

func (r *OutboxRepository) UpdateStatus(_ context.Context, id int64, status outbox.Status) error {
	defer r.lock()()

	for i, msg := range r.store.outbox {
		if msg.ID == id {
			updated := *msg
			updated.Status = status
			r.store.outbox[i] = &updated
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}

func (r *OutboxRepository) IncrementAttempts(_ context.Context, id int64) error {
	defer r.lock()()

	for i, msg := range r.store.outbox {
		if msg.ID == id {
			updated := *msg
			updated.IncrementAttempts()
			r.store.outbox[i] = &updated
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}

func (r *OutboxRepository) Delete(_ context.Context, id int64) error {
	defer r.lock()()

	for i, msg := range r.store.outbox {
		if msg.ID == id {
			r.store.outbox = append(r.store.outbox[:i], r.store.outbox[i+1:]...)
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}

func (r *OutboxRepository) GetByTransactionID(_ context.Context, transactionID uuid.UUID) (*outbox.Message, error) {
	defer r.lock()()

	for _, msg := range r.store.outbox {
		if msg.TransactionID == transactionID {
			copied := *msg
			return &copied, nil
		}
	}
	return nil, outbox.ErrMessageNotFound{}
}
