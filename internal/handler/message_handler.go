package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/service"
)

// MessageHandler handles direct message HTTP requests
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req domain.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	message, err := h.service.Send(middleware.GetUserID(c), &req)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: message})
}

// Conversation handles GET /messages/conversations/:user_id
func (h *MessageHandler) Conversation(c *gin.Context) {
	otherUserID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	page, limit := pageParams(c)
	messages, total, err := h.service.Conversation(middleware.GetUserID(c), otherUserID, page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, messages, listMeta(page, limit, total))
}

// ListReceived handles GET /messages/received
func (h *MessageHandler) ListReceived(c *gin.Context) {
	page, limit := pageParams(c)
	messages, total, err := h.service.ListReceived(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, messages, listMeta(page, limit, total))
}

// ListSent handles GET /messages/sent
func (h *MessageHandler) ListSent(c *gin.Context) {
	page, limit := pageParams(c)
	messages, total, err := h.service.ListSent(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, messages, listMeta(page, limit, total))
}

// MarkDelivered handles PUT /messages/:id/delivered
func (h *MessageHandler) MarkDelivered(c *gin.Context) {
	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkDelivered(middleware.GetUserID(c), messageID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"delivered": true}, nil)
}

// MarkRead handles PUT /messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(middleware.GetUserID(c), messageID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"read": true}, nil)
}

// Delete handles DELETE /messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(middleware.GetUserID(c), messageID); err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// UnreadCount handles GET /messages/unread-count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(middleware.GetUserID(c))
	if err != nil {
		common.ServiceError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"unread": count}, nil)
}
