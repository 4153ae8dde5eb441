package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/service"
)

// FriendshipHandler handles friendship HTTP requests
type FriendshipHandler struct {
	service service.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(service service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{service: service}
}

// Request handles POST /friends/requests
func (h *FriendshipHandler) Request(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	friendship, err := h.service.Request(middleware.GetUserID(c), req.Username)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: friendship})
}

// Accept handles POST /friends/requests/:id/accept
func (h *FriendshipHandler) Accept(c *gin.Context) {
	friendshipID, ok := parseID(c, "id")
	if !ok {
		return
	}

	friendship, err := h.service.Accept(middleware.GetUserID(c), friendshipID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, friendship, nil)
}

// Reject handles POST /friends/requests/:id/reject
func (h *FriendshipHandler) Reject(c *gin.Context) {
	friendshipID, ok := parseID(c, "id")
	if !ok {
		return
	}

	friendship, err := h.service.Reject(middleware.GetUserID(c), friendshipID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, friendship, nil)
}

// Unfriend handles DELETE /friends/:user_id
func (h *FriendshipHandler) Unfriend(c *gin.Context) {
	otherUserID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.Unfriend(middleware.GetUserID(c), otherUserID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"unfriended": true}, nil)
}

// Block handles POST /friends/blocks/:user_id
func (h *FriendshipHandler) Block(c *gin.Context) {
	targetUserID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.Block(middleware.GetUserID(c), targetUserID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"blocked": true}, nil)
}

// Unblock handles DELETE /friends/blocks/:user_id
func (h *FriendshipHandler) Unblock(c *gin.Context) {
	targetUserID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.Unblock(middleware.GetUserID(c), targetUserID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"unblocked": true}, nil)
}

// Toggle handles POST /friends/toggle/:user_id
func (h *FriendshipHandler) Toggle(c *gin.Context) {
	targetUserID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	result, err := h.service.Toggle(middleware.GetUserID(c), targetUserID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}

// ListFriends handles GET /friends
func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	page, limit := pageParams(c)
	friends, total, err := h.service.ListFriends(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, friends, listMeta(page, limit, total))
}

// ListPendingReceived handles GET /friends/requests/received
func (h *FriendshipHandler) ListPendingReceived(c *gin.Context) {
	page, limit := pageParams(c)
	requests, total, err := h.service.ListPendingReceived(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, requests, listMeta(page, limit, total))
}

// ListPendingSent handles GET /friends/requests/sent
func (h *FriendshipHandler) ListPendingSent(c *gin.Context) {
	page, limit := pageParams(c)
	requests, total, err := h.service.ListPendingSent(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, requests, listMeta(page, limit, total))
}
