package handler

import (
	"log/slog"
	"time"

	"github.com/compost-credit-ledger/internal/api/service"
	"github.com/compost-credit-ledger/internal/domain/account"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountHandler handles HTTP requests for account directory operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles creation of a new account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		parsed, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			RespondBadRequest(c, "Invalid initial balance")
			return
		}
		initialBalance = parsed
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.OwnerName, req.PhoneNumber, initialBalance)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Lookup retrieves an account by phone number
func (h *AccountHandler) Lookup(c *gin.Context) {
	phoneNumber := c.Query("phone_number")
	if phoneNumber == "" {
		RespondBadRequest(c, "phone_number query parameter is required")
		return
	}

	acc, err := h.accountService.GetAccountByPhoneNumber(c.Request.Context(), phoneNumber)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// SetLocalStand assigns the participant's usual compost stand
func (h *AccountHandler) SetLocalStand(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var req SetLocalStandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.SetLocalStand(c.Request.Context(), id, req.StandID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:           acc.ID.String(),
		OwnerName:    acc.OwnerName,
		PhoneNumber:  acc.PhoneNumber,
		Balance:      acc.Balance.String(),
		LocalStandID: acc.LocalStandID,
		CreatedAt:    acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    acc.UpdatedAt.Format(time.RFC3339),
	}
}
