package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/services"
)

// FriendHandler handles friend-link requests.
type FriendHandler struct {
	friendService services.FriendServicer
	auditService  services.AuditServicer
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(friendService services.FriendServicer, auditService services.AuditServicer) *FriendHandler {
	return &FriendHandler{friendService: friendService, auditService: auditService}
}

// FriendRequestPayload represents the request payload for sending a friend request.
type FriendRequestPayload struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// RespondRequestPayload represents the request payload for answering a friend request.
type RespondRequestPayload struct {
	Accept bool `json:"accept"`
}

// SendRequest sends a friend request to another user.
// @Summary     Send friend request
// @Description Send a friend request to another user
// @Tags        friends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body FriendRequestPayload true "Recipient user ID"
// @Success     201 {object} models.FriendLink "Pending friend link"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Friend link already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /friends/requests [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FriendRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	link, err := h.friendService.SendRequest(userID, req.UserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SEND_FRIEND_REQUEST", "friend_link", link.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"link": link})
}

// Respond accepts or rejects a pending friend request.
// @Summary     Respond to friend request
// @Description Accept or reject a pending friend request (recipient only)
// @Tags        friends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Friend link ID"
// @Param       request body RespondRequestPayload true "Accept or reject"
// @Success     200 {object} models.FriendLink "Updated friend link"
// @Failure     400 {object} ErrorResponse "Invalid input or request not pending"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Only the recipient can respond"
// @Failure     404 {object} ErrorResponse "Friend request not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /friends/requests/{id} [put]
func (h *FriendHandler) Respond(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	linkID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RespondRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	link, err := h.friendService.Respond(userID, linkID, req.Accept)
	if err != nil {
		respondWithError(c, err)
		return
	}

	action := "REJECT_FRIEND_REQUEST"
	if req.Accept {
		action = "ACCEPT_FRIEND_REQUEST"
	}
	h.auditService.Log(userID, action, "friend_link", linkID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// ListLinks returns every friend link the user participates in.
// @Summary     List friend links
// @Description List all friend links (pending, accepted, rejected) for the user
// @Tags        friends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.FriendLink "Friend links"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /friends/requests [get]
func (h *FriendHandler) ListLinks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	links, err := h.friendService.ListLinks(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

// GetFriends returns the user's accepted friends.
// @Summary     Get friends
// @Description Get the user's accepted friends with display names
// @Tags        friends
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.Friend "Friends"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /friends [get]
func (h *FriendHandler) GetFriends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	friends, err := h.friendService.GetFriends(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}
