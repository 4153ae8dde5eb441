package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/service"
)

// LikeHandler handles like HTTP requests for one resource kind. The same
// handler serves notes and repositories; the kind is fixed at wiring time.
type LikeHandler struct {
	service service.LikeService
	kind    domain.ResourceKind
}

// NewLikeHandler creates a new LikeHandler for the given resource kind
func NewLikeHandler(service service.LikeService, kind domain.ResourceKind) *LikeHandler {
	return &LikeHandler{service: service, kind: kind}
}

// Like handles POST /{notes,repositories}/:id/like
func (h *LikeHandler) Like(c *gin.Context) {
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Like(middleware.GetUserID(c), targetID, h.kind)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}

// Unlike handles DELETE /{notes,repositories}/:id/like
func (h *LikeHandler) Unlike(c *gin.Context) {
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Unlike(middleware.GetUserID(c), targetID, h.kind)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}

// Toggle handles POST /{notes,repositories}/:id/like/toggle
func (h *LikeHandler) Toggle(c *gin.Context) {
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.Toggle(middleware.GetUserID(c), targetID, h.kind)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, result, nil)
}
