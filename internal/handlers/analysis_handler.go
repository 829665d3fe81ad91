package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/pagination"
	"spendpal/internal/services"
)

// AnalysisHandler handles AI spending analysis requests.
type AnalysisHandler struct {
	analysisService services.AnalysisServicer
	auditService    services.AuditServicer
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService services.AnalysisServicer, auditService services.AuditServicer) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, auditService: auditService}
}

// AnalysisStatusResponse reports whether a new report can be generated.
type AnalysisStatusResponse struct {
	CanGenerate bool `json:"can_generate"`
}

// AdviceResponse carries short saving tips.
type AdviceResponse struct {
	Tips []string `json:"tips"`
}

// Generate produces a new AI spending report.
// @Summary     Generate analysis report
// @Description Generate and store a narrative AI report over the last 30 days of spending; rate limited by a cooldown
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} models.AnalysisReport "Generated report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "No expenses to analyze"
// @Failure     429 {object} ErrorResponse "Cooldown active"
// @Failure     503 {object} ErrorResponse "Analysis temporarily unavailable"
// @Router      /analysis/reports [post]
func (h *AnalysisHandler) Generate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.analysisService.Generate(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GENERATE_ANALYSIS", "analysis_report", report.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// ListReports returns the user's stored reports.
// @Summary     List analysis reports
// @Description Get a paginated list of stored AI reports, newest first
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AnalysisReport] "Paginated reports"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analysis/reports [get]
func (h *AnalysisHandler) ListReports(c *gin.Context) {
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

	result, err := h.analysisService.ListReports(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStatus reports whether the cooldown allows a new report.
// @Summary     Get analysis status
// @Description Check whether the cooldown allows generating a new report
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} AnalysisStatusResponse "Cooldown status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analysis/status [get]
func (h *AnalysisHandler) GetStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ok, err := h.analysisService.CanGenerate(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"can_generate": ok})
}

// GetAdvice returns short saving tips.
// @Summary     Get saving tips
// @Description Get short AI saving tips for the last 30 days; degrades to fixed tips when the model is unavailable
// @Tags        analysis
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} AdviceResponse "Saving tips"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analysis/advice [get]
func (h *AnalysisHandler) GetAdvice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tips, err := h.analysisService.GetAdvice(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tips": tips})
}
