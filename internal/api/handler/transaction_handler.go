package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KOlivier2119/SecureBank/internal/api/middleware"
	"github.com/KOlivier2119/SecureBank/internal/domain/money"
	"github.com/KOlivier2119/SecureBank/internal/ledger"
)

// TransactionHandler handles HTTP requests for money movement and history
type TransactionHandler struct {
	ledger LedgerService
	logger *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, ledger LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledger: ledger,
		logger: logger,
	}
}

// Deposit credits outside funds to one of the acting user's accounts
func (h *TransactionHandler) Deposit(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountID, amount, ok := h.parseMovement(c, req.AccountID, req.Amount)
	if !ok {
		return
	}

	record, err := h.ledger.Deposit(c.Request.Context(), actorID, ledger.DepositRequest{
		AccountID:    accountID,
		Amount:       amount,
		Description:  req.Description,
		MerchantName: req.MerchantName,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(record))
}

// Withdraw debits funds from one of the acting user's accounts
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountID, amount, ok := h.parseMovement(c, req.AccountID, req.Amount)
	if !ok {
		return
	}

	record, err := h.ledger.Withdraw(c.Request.Context(), actorID, ledger.WithdrawRequest{
		AccountID:    accountID,
		Amount:       amount,
		Description:  req.Description,
		MerchantName: req.MerchantName,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(record))
}

// Transfer moves funds between two accounts. The response carries the
// TRANSFER_OUT leg; its destination field links the paired TRANSFER_IN.
func (h *TransactionHandler) Transfer(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sourceID, amount, ok := h.parseMovement(c, req.SourceAccountID, req.Amount)
	if !ok {
		return
	}

	destinationID, err := uuid.Parse(req.DestinationAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}

	record, err := h.ledger.Transfer(c.Request.Context(), actorID, ledger.TransferRequest{
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		Amount:               amount,
		Description:          req.Description,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(record))
}

// Pay debits a merchant payment from one of the acting user's accounts
func (h *TransactionHandler) Pay(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountID, amount, ok := h.parseMovement(c, req.AccountID, req.Amount)
	if !ok {
		return
	}

	record, err := h.ledger.Pay(c.Request.Context(), actorID, ledger.PaymentRequest{
		AccountID:    accountID,
		Amount:       amount,
		MerchantName: req.MerchantName,
		Category:     req.Category,
		Description:  req.Description,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(record))
}

// GetByAccountID retrieves paginated transaction history for an account,
// newest first
func (h *TransactionHandler) GetByAccountID(c *gin.Context) {
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

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	offset := (pagination.Page - 1) * pagination.PerPage
	records, total, err := h.ledger.ListTransactions(c.Request.Context(), actorID, accountID, pagination.PerPage, offset)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapTransactionToResponse(record))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// GetByID retrieves one transaction record, returning 404 if missing and 403
// if it touches none of the acting user's accounts
func (h *TransactionHandler) GetByID(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	record, err := h.ledger.GetTransaction(c.Request.Context(), actorID, transactionID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(record))
}

// parseMovement validates the account ID and amount fields shared by every
// movement request. It writes the error response itself on failure.
func (h *TransactionHandler) parseMovement(c *gin.Context, rawAccountID, rawAmount string) (uuid.UUID, money.Money, bool) {
	accountID, err := uuid.Parse(rawAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, money.Zero(), false
	}

	amount, err := money.Parse(rawAmount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount: "+rawAmount)
		return uuid.Nil, money.Zero(), false
	}

	return accountID, amount, true
}
