package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KOlivier2119/SecureBank/internal/api/middleware"
	"github.com/KOlivier2119/SecureBank/internal/domain/account"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	ledger LedgerService
	logger *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, ledger LedgerService) *AccountHandler {
	return &AccountHandler{
		ledger: ledger,
		logger: logger,
	}
}

// Create opens a new account of the requested kind for the acting user
func (h *AccountHandler) Create(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.ledger.CreateAccount(c.Request.Context(), actorID, account.Kind(req.Kind))
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// List returns every account owned by the acting user
func (h *AccountHandler) List(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	accounts, err := h.ledger.ListAccounts(c.Request.Context(), actorID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}

	RespondOK(c, responses)
}

// GetByID retrieves one of the acting user's accounts, returning 404 if it
// does not exist and 403 if it belongs to someone else
func (h *AccountHandler) GetByID(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.ledger.GetAccount(c.Request.Context(), actorID, accountID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Activate reopens a deactivated account
func (h *AccountHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate freezes an account; subsequent movements are rejected
func (h *AccountHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *AccountHandler) setActive(c *gin.Context, active bool) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.ledger.SetAccountActive(c.Request.Context(), accountID, active)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}
