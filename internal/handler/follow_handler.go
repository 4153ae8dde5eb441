package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/service"
)

// FollowHandler handles repository follow HTTP requests
type FollowHandler struct {
	service service.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(service service.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

// Follow handles POST /repositories/:id/follow
func (h *FollowHandler) Follow(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Follow(middleware.GetUserID(c), repositoryID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}

// Unfollow handles DELETE /repositories/:id/follow
func (h *FollowHandler) Unfollow(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Unfollow(middleware.GetUserID(c), repositoryID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}

// Toggle handles POST /repositories/:id/follow/toggle
func (h *FollowHandler) Toggle(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Toggle(middleware.GetUserID(c), repositoryID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}

// ListFollowed handles GET /follows
func (h *FollowHandler) ListFollowed(c *gin.Context) {
	page, limit := pageParams(c)
	repos, total, err := h.service.ListFollowed(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, repos, listMeta(page, limit, total))
}
