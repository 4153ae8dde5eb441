package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/service"
)

// CommentHandler handles comment HTTP requests. Add and List are bound per
// resource kind; Update and Delete address the comment directly.
type CommentHandler struct {
	service service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// AddFor returns a handler for POST /{notes,repositories}/:id/comments
func (h *CommentHandler) AddFor(kind domain.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := parseID(c, "id")
		if !ok {
			return
		}

		var req domain.CommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
			return
		}

		comment, err := h.service.Add(middleware.GetUserID(c), targetID, kind, &req)
		if err != nil {
			common.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, common.APIResponse{Data: comment})
	}
}

// ListFor returns a handler for GET /{notes,repositories}/:id/comments
func (h *CommentHandler) ListFor(kind domain.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := parseID(c, "id")
		if !ok {
			return
		}

		page, limit := pageParams(c)
		comments, total, err := h.service.List(middleware.GetUserID(c), targetID, kind, page, limit)
		if err != nil {
			common.ServiceError(c, err)
			return
		}
		common.SuccessResponse(c, comments, listMeta(page, limit, total))
	}
}

// Update handles PUT /comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	comment, err := h.service.Update(middleware.GetUserID(c), commentID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, comment, nil)
}

// Delete handles DELETE /comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(middleware.GetUserID(c), commentID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
