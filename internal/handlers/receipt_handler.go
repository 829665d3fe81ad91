package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/services"
)

// ReceiptHandler handles receipt image extraction requests.
type ReceiptHandler struct {
	extractor services.ReceiptExtractor
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(extractor services.ReceiptExtractor) *ReceiptHandler {
	return &ReceiptHandler{extractor: extractor}
}

// ExtractReceiptRequest represents the request payload for receipt extraction.
// Image is a data URL (data:image/...;base64,...).
type ExtractReceiptRequest struct {
	Image string `json:"image" binding:"required"`
}

// Extract turns a receipt image into an expense draft.
// @Summary     Extract expense from receipt
// @Description Send a receipt image and receive a structured expense draft; the draft still goes through normal validation when saved
// @Tags        receipts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExtractReceiptRequest true "Receipt image as a data URL"
// @Success     200 {object} llm.ReceiptDraft "Extracted expense draft"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Could not extract an expense"
// @Router      /receipts/extract [post]
func (h *ReceiptHandler) Extract(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req ExtractReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if !strings.HasPrefix(req.Image, "data:image/") {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "image must be a data URL"))
		return
	}

	draft, err := h.extractor.ExtractReceipt(c.Request.Context(), req.Image)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrExtractionFailed, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}
