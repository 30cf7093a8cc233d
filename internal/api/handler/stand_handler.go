package handler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/compost-credit-ledger/internal/api/service"
	"github.com/compost-credit-ledger/internal/domain/stand"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StandHandler handles HTTP requests for the compost stand directory
type StandHandler struct {
	standService service.StandService
	logger       *slog.Logger
}

// NewStandHandler creates a new stand handler
func NewStandHandler(logger *slog.Logger, standService service.StandService) *StandHandler {
	return &StandHandler{
		standService: standService,
		logger:       logger,
	}
}

// Create registers a new compost stand
func (h *StandHandler) Create(c *gin.Context) {
	var req CreateStandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	st, err := h.standService.CreateStand(c.Request.Context(), req.ID, req.Name)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapStandToResponse(st))
}

// GetByID retrieves a stand together with its current admin set
func (h *StandHandler) GetByID(c *gin.Context) {
	id, ok := parseStandID(c)
	if !ok {
		return
	}

	st, err := h.standService.GetStand(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapStandToResponse(st))
}

// List returns every stand in the directory
func (h *StandHandler) List(c *gin.Context) {
	stands, err := h.standService.ListStands(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]StandResponse, 0, len(stands))
	for _, st := range stands {
		responses = append(responses, mapStandToResponse(st))
	}

	RespondOK(c, responses)
}

// AddAdmin grants an account administrator status on a stand
func (h *StandHandler) AddAdmin(c *gin.Context) {
	id, ok := parseStandID(c)
	if !ok {
		return
	}

	var req AddStandAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	st, err := h.standService.AddAdmin(c.Request.Context(), id, accountID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapStandToResponse(st))
}

// RemoveAdmin revokes an account's administrator status on a stand
func (h *StandHandler) RemoveAdmin(c *gin.Context) {
	id, ok := parseStandID(c)
	if !ok {
		return
	}

	accountID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	st, err := h.standService.RemoveAdmin(c.Request.Context(), id, accountID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapStandToResponse(st))
}

// GetDeposits returns deposit reports recorded against a stand. Defaults to
// the last 30 days when no range is given.
func (h *StandHandler) GetDeposits(c *gin.Context) {
	id, ok := parseStandID(c)
	if !ok {
		return
	}

	endTime := time.Now()
	startTime := endTime.AddDate(0, 0, -30)

	if raw := c.Query("start_time"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(c, "Invalid start_time, expected RFC3339")
			return
		}
		startTime = parsed
	}
	if raw := c.Query("end_time"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(c, "Invalid end_time, expected RFC3339")
			return
		}
		endTime = parsed
	}

	reports, err := h.standService.GetStandDeposits(c.Request.Context(), id, startTime, endTime)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]DepositReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, mapReportToResponse(report))
	}

	RespondOK(c, responses)
}

func parseStandID(c *gin.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		RespondBadRequest(c, "Invalid stand ID")
		return 0, false
	}
	return int32(id), true
}

// mapStandToResponse maps a stand entity to a stand response DTO
func mapStandToResponse(st *stand.CompostStand) StandResponse {
	adminIDs := make([]string, 0, len(st.AdminIDs))
	for _, id := range st.AdminIDs {
		adminIDs = append(adminIDs, id.String())
	}

	return StandResponse{
		ID:        st.ID,
		Name:      st.Name,
		AdminIDs:  adminIDs,
		CreatedAt: st.CreatedAt.Format(time.RFC3339),
	}
}

// mapReportToResponse maps a deposit report to a response DTO
func mapReportToResponse(report *stand.DepositReport) DepositReportResponse {
	quality := QualityObservationRequest{
		Notes:         report.Quality.Notes,
		Bugs:          report.Quality.Bugs,
		ScalesProblem: report.Quality.ScalesProblem,
		Full:          report.Quality.Full,
		CleanAndTidy:  report.Quality.CleanAndTidy,
		CompostSmell:  report.Quality.CompostSmell,
	}
	if report.Quality.DryMatter != nil {
		quality.DryMatter = string(*report.Quality.DryMatter)
	}

	return DepositReportResponse{
		ID:          report.ID.String(),
		StandID:     report.StandID,
		DepositorID: report.DepositorID.String(),
		WeightKg:    report.WeightKg.String(),
		Quality:     quality,
		CreatedAt:   report.CreatedAt.Format(time.RFC3339),
	}
}
