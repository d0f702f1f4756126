package mongo

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNewArchiveRepository(t *testing.T) {
	db := &mongo.Database{}
	repo := NewArchiveRepository(slog.Default(), db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestErrAlreadyArchived(t *testing.T) {
	id := uuid.New()
	err := ErrAlreadyArchived{TransactionID: id}
	assert.Contains(t, err.Error(), id.String())
}

// Query behavior against a live collection is covered by the integration
// environment; the mongo driver's concrete types cannot be mocked here.
