package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/models"
	"spendpal/internal/pagination"
	"spendpal/internal/services"
)

// WishlistHandler handles wishlist requests.
type WishlistHandler struct {
	wishlistService services.WishlistServicer
	auditService    services.AuditServicer
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlistService services.WishlistServicer, auditService services.AuditServicer) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, auditService: auditService}
}

// AddWishlistItemRequest represents the request payload for adding a wishlist item.
type AddWishlistItemRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Category    string `json:"category" binding:"required,expense_category"`
	Description string `json:"description" binding:"required,min=1,max=255"`
}

// AddItem creates a new wishlist item.
// @Summary     Add wishlist item
// @Description Add a prospective purchase to the wishlist
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddWishlistItemRequest true "Wishlist item details"
// @Success     201 {object} models.WishlistItem "Wishlist item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist [post]
func (h *WishlistHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.wishlistService.AddItem(userID, req.Amount, models.ExpenseCategory(req.Category), req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_WISHLIST_ITEM", "wishlist_item", item.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// GetItems returns the user's wishlist.
// @Summary     Get wishlist
// @Description Get a paginated list of the user's wishlist items
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.WishlistItem] "Paginated wishlist items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist [get]
func (h *WishlistHandler) GetItems(c *gin.Context) {
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

	result, err := h.wishlistService.GetItems(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteItem removes a wishlist item.
// @Summary     Delete wishlist item
// @Description Delete a wishlist item by ID
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wishlist item ID"
// @Success     200 {object} MessageResponse "Wishlist item deleted"
// @Failure     400 {object} ErrorResponse "Invalid item ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wishlist item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist/{id} [delete]
func (h *WishlistHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.wishlistService.DeleteItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_WISHLIST_ITEM", "wishlist_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Wishlist item deleted successfully"})
}

// Convert turns a wishlist item into an expense.
// @Summary     Convert wishlist item
// @Description Convert a wishlist item into an expense dated now, consuming the item
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Wishlist item ID"
// @Success     201 {object} models.Expense "Created expense"
// @Failure     400 {object} ErrorResponse "Invalid item ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wishlist item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist/{id}/convert [post]
func (h *WishlistHandler) Convert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.wishlistService.Convert(userID, itemID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CONVERT_WISHLIST_ITEM", "wishlist_item", itemID, c.ClientIP(),
		map[string]interface{}{"expense_id": expense.ID})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}
