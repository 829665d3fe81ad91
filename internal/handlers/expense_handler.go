package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/models"
	"spendpal/internal/pagination"
	"spendpal/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService    services.ExpenseServicer
	recurrenceService services.RecurrenceServicer
	auditService      services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, recurrenceService services.RecurrenceServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService:    expenseService,
		recurrenceService: recurrenceService,
		auditService:      auditService,
	}
}

// CreateExpenseRequest represents the request payload for creating an expense.
// cadence_months/next_occurrence must be given together, as must
// counterparty_id/share_percent/direction.
type CreateExpenseRequest struct {
	Amount      int64     `json:"amount" binding:"required,gt=0"`
	Category    string    `json:"category" binding:"required,expense_category"`
	Description string    `json:"description" binding:"required,min=1,max=255"`
	OccurredAt  time.Time `json:"occurred_at" binding:"required"`

	CadenceMonths  *int       `json:"cadence_months" binding:"omitempty,cadence_months"`
	NextOccurrence *time.Time `json:"next_occurrence"`

	CounterpartyID *string  `json:"counterparty_id" binding:"omitempty,uuid"`
	SharePercent   *float64 `json:"share_percent" binding:"omitempty,min=0,max=100"`
	Direction      *string  `json:"direction" binding:"omitempty,share_direction"`
}

// UpdateExpenseRequest represents the request payload for updating an expense.
type UpdateExpenseRequest struct {
	Amount      *int64     `json:"amount" binding:"omitempty,gt=0"`
	Category    *string    `json:"category" binding:"omitempty,expense_category"`
	Description *string    `json:"description" binding:"omitempty,min=1,max=255"`
	OccurredAt  *time.Time `json:"occurred_at"`

	// NextOccurrence reschedules a recurring expense.
	NextOccurrence *time.Time `json:"next_occurrence"`
}

// CreateExpense handles the creation of a new expense.
// @Summary     Create an expense
// @Description Create a new expense, optionally recurring and/or shared with a friend
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.ExpenseInput{
		Amount:         req.Amount,
		Category:       models.ExpenseCategory(req.Category),
		Description:    req.Description,
		OccurredAt:     req.OccurredAt,
		CadenceMonths:  req.CadenceMonths,
		NextOccurrence: req.NextOccurrence,
		CounterpartyID: req.CounterpartyID,
		SharePercent:   req.SharePercent,
	}
	if req.Direction != nil {
		d := models.ShareDirection(*req.Direction)
		in.Direction = &d
	}

	expense, err := h.expenseService.CreateExpense(userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category": req.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses for the authenticated user.
// @Summary     Get expenses
// @Description Get a paginated, filtered list of expenses for the authenticated user
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from       query string false "Earliest occurred_at (RFC 3339)"
// @Param       to         query string false "Latest occurred_at (RFC 3339)"
// @Param       category   query string false "Filter by category"
// @Param       min_amount query int    false "Minimum amount in cents"
// @Param       max_amount query int    false "Maximum amount in cents"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetUserExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be an RFC 3339 timestamp")
		}
		filter.FromDate = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be an RFC 3339 timestamp")
		}
		filter.ToDate = &t
	}
	if v := c.Query("category"); v != "" {
		cat := models.ExpenseCategory(v)
		if !models.IsValidCategory(cat) {
			return filter, apperrors.ErrInvalidCategory
		}
		filter.Category = &cat
	}
	if v := c.Query("min_amount"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "min_amount must be an integer")
		}
		filter.MinAmount = &n
	}
	if v := c.Query("max_amount"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "max_amount must be an integer")
		}
		filter.MaxAmount = &n
	}

	return filter, nil
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a specific expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating an existing expense.
// @Summary     Update expense
// @Description Update an existing expense; shared edits propagate to the counterparty's mirrored entry
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated expense details"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	upd := services.ExpenseUpdate{
		Amount:         req.Amount,
		Description:    req.Description,
		OccurredAt:     req.OccurredAt,
		NextOccurrence: req.NextOccurrence,
	}
	if req.Category != nil {
		cat := models.ExpenseCategory(*req.Category)
		upd.Category = &cat
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, upd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Description Delete an expense; deleting a shared expense removes the counterparty's mirrored entry too
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// RollForward materializes due instances of the user's recurring expenses.
// @Summary     Roll recurring expenses forward
// @Description Materialize a new expense for every recurring expense whose next occurrence has arrived
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.RollForwardResult "Materialized expenses and any per-expense failures"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/rollforward [post]
func (h *ExpenseHandler) RollForward(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.recurrenceService.RollForward(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
