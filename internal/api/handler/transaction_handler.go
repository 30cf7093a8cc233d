package handler

import (
	"log/slog"
	"time"

	"github.com/compost-credit-ledger/internal/api/service"
	"github.com/compost-credit-ledger/internal/data/mongo"
	"github.com/compost-credit-ledger/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles HTTP requests for ledger operations: transfers,
// payment requests, and transaction history reads.
type TransactionHandler struct {
	ledgerEngine service.LedgerEngine
	readService  service.TransactionReadService
	statsService service.StatsService
	precision    int32
	logger       *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	logger *slog.Logger,
	ledgerEngine service.LedgerEngine,
	readService service.TransactionReadService,
	statsService service.StatsService,
	precision int32,
) *TransactionHandler {
	return &TransactionHandler{
		ledgerEngine: ledgerEngine,
		readService:  readService,
		statsService: statsService,
		precision:    precision,
		logger:       logger,
	}
}

// CreateTransfer moves credit between accounts, or mints credit for the
// minting categories.
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return
	}

	destinationID, err := uuid.Parse(req.DestinationAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}

	var sourceID *uuid.UUID
	if req.SourceAccountID != "" {
		parsed, err := uuid.Parse(req.SourceAccountID)
		if err != nil {
			RespondBadRequest(c, "Invalid source account ID")
			return
		}
		sourceID = &parsed
	}

	category, err := ledger.ParseCategory(req.Category)
	if err != nil {
		RespondBadRequest(c, "Unknown transaction category: "+req.Category)
		return
	}

	txn, err := h.ledgerEngine.Transfer(c.Request.Context(), sourceID, destinationID, amount, category, req.Reason)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// CreateRequest proposes a transfer that the payer must later resolve
func (h *TransactionHandler) CreateRequest(c *gin.Context) {
	var req CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount")
		return
	}

	payerID, err := uuid.Parse(req.PayerAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid payer account ID")
		return
	}
	payeeID, err := uuid.Parse(req.PayeeAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid payee account ID")
		return
	}

	txn, err := h.ledgerEngine.CreateRequest(c.Request.Context(), payerID, payeeID, amount, req.Reason)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// ResolveRequest accepts or rejects a pending payment request. Resolution
// happens exactly once; a second attempt gets 404.
func (h *TransactionHandler) ResolveRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	var req ResolveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	txn, err := h.ledgerEngine.ResolveRequest(c.Request.Context(), id, *req.Accept)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// GetByID retrieves a ledger transaction by its ID
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.readService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// GetByAccountID retrieves paginated transaction history for an account
func (h *TransactionHandler) GetByAccountID(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	transactions, total, err := h.readService.GetTransactionsByAccountID(
		c.Request.Context(), accountID, pagination.Page, pagination.PerPage)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, mapTransactionToResponse(txn))
	}

	RespondWithPaginatedData(c, 200, responses, pagination.Page, pagination.PerPage, int(total))
}

// GetDailyStats serves per-category daily aggregates from the projected
// read models. Defaults to the last 7 days.
func (h *TransactionHandler) GetDailyStats(c *gin.Context) {
	endDay := time.Now().UTC().Format("2006-01-02")
	startDay := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")

	if raw := c.Query("start_day"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			RespondBadRequest(c, "Invalid start_day, expected YYYY-MM-DD")
			return
		}
		startDay = raw
	}
	if raw := c.Query("end_day"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			RespondBadRequest(c, "Invalid end_day, expected YYYY-MM-DD")
			return
		}
		endDay = raw
	}

	stats, err := h.statsService.GetDailyStats(c.Request.Context(), startDay, endDay)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]DailyStatResponse, 0, len(stats))
	for _, stat := range stats {
		responses = append(responses, mapStatToResponse(stat, h.precision))
	}

	RespondOK(c, responses)
}

// mapTransactionToResponse maps a ledger transaction to a response DTO
func mapTransactionToResponse(txn *ledger.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                   txn.ID.String(),
		Category:             string(txn.Category),
		Amount:               txn.Amount.String(),
		DestinationAccountID: txn.DestinationAccountID.String(),
		Reason:               txn.Reason,
		Pending:              txn.Pending,
		CreatedAt:            txn.CreatedAt.Format(time.RFC3339),
	}
	if txn.SourceAccountID != nil {
		source := txn.SourceAccountID.String()
		resp.SourceAccountID = &source
	}
	return resp
}

func mapStatToResponse(stat *mongo.DailyCategoryStat, precision int32) DailyStatResponse {
	return DailyStatResponse{
		Day:      stat.Day,
		Category: stat.Category,
		Total:    stat.Total(precision).String(),
		Count:    stat.Count,
	}
}
