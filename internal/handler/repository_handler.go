package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/service"
)

// RepositoryHandler handles repository HTTP requests
type RepositoryHandler struct {
	service service.RepositoryService
}

// NewRepositoryHandler creates a new RepositoryHandler
func NewRepositoryHandler(service service.RepositoryService) *RepositoryHandler {
	return &RepositoryHandler{service: service}
}

// Create handles POST /repositories
func (h *RepositoryHandler) Create(c *gin.Context) {
	var req domain.RepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	repo, err := h.service.Create(middleware.GetUserID(c), &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: repo})
}

// Get handles GET /repositories/:id
func (h *RepositoryHandler) Get(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	repo, err := h.service.Get(middleware.GetUserID(c), repositoryID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, repo, nil)
}

// Update handles PUT /repositories/:id
func (h *RepositoryHandler) Update(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.RepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	repo, err := h.service.Update(middleware.GetUserID(c), repositoryID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, repo, nil)
}

// Delete handles DELETE /repositories/:id
func (h *RepositoryHandler) Delete(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(middleware.GetUserID(c), repositoryID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// ListMine handles GET /repositories/mine
func (h *RepositoryHandler) ListMine(c *gin.Context) {
	page, limit := pageParams(c)
	repos, total, err := h.service.ListMine(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, repos, listMeta(page, limit, total))
}

// ListPublic handles GET /repositories/public
func (h *RepositoryHandler) ListPublic(c *gin.Context) {
	page, limit := pageParams(c)
	repos, total, err := h.service.ListPublic(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, repos, listMeta(page, limit, total))
}

// ListSharedWithMe handles GET /repositories/shared
func (h *RepositoryHandler) ListSharedWithMe(c *gin.Context) {
	page, limit := pageParams(c)
	repos, total, err := h.service.ListSharedWithMe(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, repos, listMeta(page, limit, total))
}

// ListNotes handles GET /repositories/:id/notes
func (h *RepositoryHandler) ListNotes(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	page, limit := pageParams(c)
	notes, total, err := h.service.ListNotes(middleware.GetUserID(c), repositoryID, page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, notes, listMeta(page, limit, total))
}

// Share handles POST /repositories/:id/shares
func (h *RepositoryHandler) Share(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	share, err := h.service.Share(middleware.GetUserID(c), repositoryID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: share})
}

// UpdateSharePermission handles PUT /repositories/:id/shares
func (h *RepositoryHandler) UpdateSharePermission(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.UpdateSharePermission(middleware.GetUserID(c), repositoryID, &req); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"updated": true}, nil)
}

// Unshare handles DELETE /repositories/:id/shares/:username
func (h *RepositoryHandler) Unshare(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unshare(middleware.GetUserID(c), repositoryID, c.Param("username")); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"unshared": true}, nil)
}

// ListShares handles GET /repositories/:id/shares
func (h *RepositoryHandler) ListShares(c *gin.Context) {
	repositoryID, ok := parseID(c, "id")
	if !ok {
		return
	}

	shares, err := h.service.ListShares(middleware.GetUserID(c), repositoryID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, shares, nil)
}
