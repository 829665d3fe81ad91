package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/logger"
	"spendpal/internal/services"
)

// BudgetHandler handles budget-period requests.
type BudgetHandler struct {
	budgetService     services.BudgetServicer
	recurrenceService services.RecurrenceServicer
	auditService      services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, recurrenceService services.RecurrenceServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{
		budgetService:     budgetService,
		recurrenceService: recurrenceService,
		auditService:      auditService,
	}
}

// SetBudgetRequest represents the request payload for setting the budget period.
type SetBudgetRequest struct {
	Amount    int64     `json:"amount" binding:"min=0"`
	Currency  string    `json:"currency" binding:"required,iso4217"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// SetBudget creates or replaces the user's budget period.
// @Summary     Set budget period
// @Description Create or replace the user's single active budget period
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBudgetRequest true "Budget period details"
// @Success     200 {object} models.BudgetPeriod "Budget period set"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.budgetService.SetPeriod(userID, req.Amount, req.Currency, req.StartDate, req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_BUDGET", "budget_period", period.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "currency": req.Currency})

	c.JSON(http.StatusOK, gin.H{"budget": period})
}

// GetBudget returns the user's budget period.
// @Summary     Get budget period
// @Description Get the user's active budget period
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.BudgetPeriod "Budget period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget period configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.budgetService.GetPeriod(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": period})
}

// GetSummary returns the rolled-over budget summary with spend aggregates.
// Recurring expenses are rolled forward first so freshly due instances
// count toward the total.
// @Summary     Get budget summary
// @Description Get the current budget window, total spent, remaining, and percent used
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BudgetSummary "Budget summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No budget period configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/summary [get]
func (h *BudgetHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Per-expense failures are already logged and counted by the service;
	// the summary is still meaningful without the failed instances.
	if _, err := h.recurrenceService.RollForward(userID, time.Now()); err != nil {
		logger.Get().Errorw("rollforward before budget summary failed", "user_id", userID, "error", err)
	}

	summary, err := h.budgetService.GetSummary(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
