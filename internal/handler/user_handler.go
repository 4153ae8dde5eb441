package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/service"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetByID(middleware.GetUserID(c))
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, user, nil)
}

// GetByUsername handles GET /users/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.service.GetByUsername(c.Param("username"))
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, user, nil)
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.service.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, user, nil)
}

// ChangePassword handles PUT /users/me/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"changed": true}, nil)
}

// Deactivate handles DELETE /users/me
func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(middleware.GetUserID(c)); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deactivated": true}, nil)
}

// Search handles GET /users/search
func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}

	page, limit := pageParams(c)
	users, total, err := h.service.Search(query, page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, users, listMeta(page, limit, total))
}
