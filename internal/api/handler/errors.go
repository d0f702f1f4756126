package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/KOlivier2119/SecureBank/internal/domain/account"
	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/domain/transaction"
	"github.com/KOlivier2119/SecureBank/internal/ledger"
	"github.com/KOlivier2119/SecureBank/internal/platform/persistence"
)

// respondDomainError translates engine errors into HTTP responses. Unknown
// errors get logged and surface as an opaque 500.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")

	case errors.Is(err, transaction.ErrTransactionNotFound{}):
		RespondNotFound(c, "Transaction not found")

	case errors.Is(err, ledger.ErrForbidden{}):
		RespondForbidden(c, "Account does not belong to the acting user")

	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, money.ErrInvalidAmount):
		RespondBadRequest(c, "Amount must be positive")

	case errors.Is(err, account.ErrInvalidKind):
		RespondBadRequest(c, err.Error())

	case errors.Is(err, ledger.ErrSelfTransfer):
		RespondBadRequest(c, err.Error())

	case errors.Is(err, account.ErrInsufficientFunds):
		RespondUnprocessable(c, "INSUFFICIENT_FUNDS", "Account balance does not cover the requested amount")

	case errors.Is(err, account.ErrAccountInactive{}):
		RespondUnprocessable(c, "ACCOUNT_INACTIVE", "Account is deactivated")

	case errors.Is(err, account.ErrConcurrentModification{}):
		RespondConflict(c, "Account was modified concurrently, retry the request")

	case errors.Is(err, account.ErrDuplicateNumber{}),
		errors.Is(err, transaction.ErrDuplicateReference{}):
		RespondConflict(c, "Generated identifier collided, retry the request")

	case errors.Is(err, persistence.ErrUnavailable{}):
		logger.Error("Ledger store unavailable", "error", err)
		RespondServiceUnavailable(c, "Ledger store is temporarily unavailable, retry later")

	default:
		logger.Error("Unhandled ledger error", "error", err)
		RespondInternalError(c)
	}
}
