package handler

import (
	"log/slog"

	"github.com/compost-credit-ledger/internal/api/service"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/compost-credit-ledger/internal/engine"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositHandler handles HTTP requests for compost deposits
type DepositHandler struct {
	ledgerEngine service.LedgerEngine
	logger       *slog.Logger
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(logger *slog.Logger, ledgerEngine service.LedgerEngine) *DepositHandler {
	return &DepositHandler{
		ledgerEngine: ledgerEngine,
		logger:       logger,
	}
}

// Create records a compost deposit: the report plus the depositor reward and
// stand admin bonus credits it produces, all in one transaction.
func (h *DepositHandler) Create(c *gin.Context) {
	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	depositorID, err := uuid.Parse(req.DepositorID)
	if err != nil {
		RespondBadRequest(c, "Invalid depositor ID")
		return
	}

	weightKg, err := decimal.NewFromString(req.WeightKg)
	if err != nil {
		RespondBadRequest(c, "Invalid weight")
		return
	}

	dep := engine.Deposit{
		DepositorID: depositorID,
		StandID:     req.StandID,
		WeightKg:    weightKg,
		Quality:     mapQualityFromRequest(req.Quality),
	}

	result, err := h.ledgerEngine.ProcessDeposit(c.Request.Context(), dep)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	transactions := result.Transactions()
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, mapTransactionToResponse(txn))
	}

	RespondCreated(c, DepositResponse{
		Report:       mapReportToResponse(result.Report),
		Transactions: responses,
	})
}

func mapQualityFromRequest(req *QualityObservationRequest) stand.QualityObservation {
	if req == nil {
		return stand.QualityObservation{}
	}

	quality := stand.QualityObservation{
		Notes:         req.Notes,
		Bugs:          req.Bugs,
		ScalesProblem: req.ScalesProblem,
		Full:          req.Full,
		CleanAndTidy:  req.CleanAndTidy,
		CompostSmell:  req.CompostSmell,
	}
	if req.DryMatter != "" {
		dry := stand.DryMatter(req.DryMatter)
		quality.DryMatter = &dry
	}
	return quality
}
