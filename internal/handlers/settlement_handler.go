package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/services"
)

// SettlementHandler handles shared-expense balance and settlement requests.
type SettlementHandler struct {
	settlementService services.SettlementServicer
	auditService      services.AuditServicer
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementService services.SettlementServicer, auditService services.AuditServicer) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService, auditService: auditService}
}

// SettleRequest represents the request payload for settling with a friend.
type SettleRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// GetBalances returns the net balance per accepted friend.
// @Summary     Get balances
// @Description Get the net shared-expense balance for every accepted friend; negative means the user owes the friend
// @Tags        settlements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.FriendBalance "Per-friend balances"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settlements/balances [get]
func (h *SettlementHandler) GetBalances(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balances, err := h.settlementService.GetBalances(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// Settle records a settlement toward a friend.
// @Summary     Settle with a friend
// @Description Record a debt payment toward a friend and clear the user's side of the shared ledger
// @Tags        settlements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       friendID path string        true "Friend user ID"
// @Param       request  body SettleRequest true "Settlement amount in cents"
// @Success     201 {object} models.Expense "Recorded settlement expense"
// @Failure     400 {object} ErrorResponse "Invalid input or not friends"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settlements/{friendID} [post]
func (h *SettlementHandler) Settle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	friendID, err := parsePathID(c, "friendID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.settlementService.Settle(userID, friendID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SETTLE", "expense", payment.ID, c.ClientIP(),
		map[string]interface{}{"friend_id": friendID, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"expense": payment})
}
