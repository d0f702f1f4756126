package ledger

import (
	"errors"

	"github.com/google/uuid"
)

// ErrSelfTransfer indicates a transfer whose source and destination are the
// same account, rejected under the default policy
var ErrSelfTransfer = errors.New("source and destination accounts cannot be the same")

// ErrForbidden indicates the actor does not own the account being moved from
// or queried
type ErrForbidden struct {
	AccountID uuid.UUID
}

func (e ErrForbidden) Error() string {
	return "actor does not own account: " + e.AccountID.String()
}

// Is matches any ErrForbidden when the target carries a nil ID
func (e ErrForbidden) Is(target error) bool {
	t, ok := target.(ErrForbidden)
	if !ok {
		return false
	}
	return t.AccountID == uuid.Nil || e.AccountID == t.AccountID
}
