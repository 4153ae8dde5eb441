package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/service"
	"github.com/notesphere/backend/pkg/cache"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	service  service.NoteService
	cacheSvc cache.Service
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(service service.NoteService, cacheSvc cache.Service) *NoteHandler {
	return &NoteHandler{service: service, cacheSvc: cacheSvc}
}

// Create handles POST /notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req domain.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	note, err := h.service.Create(middleware.GetUserID(c), &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: note})
}

// Get handles GET /notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	note, err := h.service.Get(middleware.GetUserID(c), noteID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, note, nil)
}

// Update handles PUT /notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	note, err := h.service.Update(middleware.GetUserID(c), noteID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, note, nil)
}

// Delete handles DELETE /notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(middleware.GetUserID(c), noteID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// ListMine handles GET /notes/mine
func (h *NoteHandler) ListMine(c *gin.Context) {
	page, limit := pageParams(c)
	notes, total, err := h.service.ListMine(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, notes, listMeta(page, limit, total))
}

// ListSharedWithMe handles GET /notes/shared
func (h *NoteHandler) ListSharedWithMe(c *gin.Context) {
	page, limit := pageParams(c)
	notes, total, err := h.service.ListSharedWithMe(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, notes, listMeta(page, limit, total))
}

// ListPublic handles GET /notes/public. Anonymous responses are cached;
// authenticated ones carry viewer-specific fields and bypass the cache.
func (h *NoteHandler) ListPublic(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	page, limit := pageParams(c)

	if viewerID == 0 && h.cacheSvc != nil && h.cacheSvc.IsAvailable() {
		if data, err := h.cacheSvc.GetPublicFeed(c.Request.Context(), page, limit); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", data)
			return
		}
	}

	notes, total, err := h.service.ListPublic(viewerID, page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}

	resp := common.APIResponse{Data: notes, Meta: listMeta(page, limit, total)}
	if viewerID == 0 && h.cacheSvc != nil && h.cacheSvc.IsAvailable() {
		go h.cacheSvc.SetPublicFeed(context.Background(), page, limit, resp) //nolint:errcheck
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, resp)
}

// Search handles GET /notes/search
func (h *NoteHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}

	page, limit := pageParams(c)
	notes, total, err := h.service.Search(middleware.GetUserID(c), query, page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, notes, listMeta(page, limit, total))
}

// AddToRepository handles POST /notes/:id/repositories/:repository_id
func (h *NoteHandler) AddToRepository(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}
	repositoryID, ok := parseID(c, "repository_id")
	if !ok {
		return
	}

	if err := h.service.AddToRepository(middleware.GetUserID(c), noteID, repositoryID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"added": true}, nil)
}

// RemoveFromRepository handles DELETE /notes/:id/repositories/:repository_id
func (h *NoteHandler) RemoveFromRepository(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}
	repositoryID, ok := parseID(c, "repository_id")
	if !ok {
		return
	}

	if err := h.service.RemoveFromRepository(middleware.GetUserID(c), noteID, repositoryID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"removed": true}, nil)
}

// Share handles POST /notes/:id/shares
func (h *NoteHandler) Share(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	share, err := h.service.Share(middleware.GetUserID(c), noteID, &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: share})
}

// UpdateSharePermission handles PUT /notes/:id/shares
func (h *NoteHandler) UpdateSharePermission(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.service.UpdateSharePermission(middleware.GetUserID(c), noteID, &req); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"updated": true}, nil)
}

// Unshare handles DELETE /notes/:id/shares/:username
func (h *NoteHandler) Unshare(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Unshare(middleware.GetUserID(c), noteID, c.Param("username")); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"unshared": true}, nil)
}

// ListShares handles GET /notes/:id/shares
func (h *NoteHandler) ListShares(c *gin.Context) {
	noteID, ok := parseID(c, "id")
	if !ok {
		return
	}

	shares, err := h.service.ListShares(middleware.GetUserID(c), noteID)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, shares, nil)
}
