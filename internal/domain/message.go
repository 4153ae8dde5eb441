package domain

import "time"

// Message status values
const (
	MessageSent      = "sent"
	MessageDelivered = "delivered"
	MessageRead      = "read"
)

// Message is a direct message between two users. Each party deletes their
// own view independently; the row stays until both sides have deleted it.
type Message struct {
	ID                uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SenderID          uint64     `gorm:"column:sender_id;index" json:"sender_id"`
	ReceiverID        uint64     `gorm:"column:receiver_id;index" json:"receiver_id"`
	Content           string     `gorm:"column:content;type:text" json:"content"`
	Status            string     `gorm:"column:status;type:varchar(10);default:'sent'" json:"status"`
	SenderDeletedAt   *time.Time `gorm:"column:sender_deleted_at" json:"-"`
	ReceiverDeletedAt *time.Time `gorm:"column:receiver_deleted_at" json:"-"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Message) TableName() string { return "messages" }

// VisibleTo reports whether the given party still sees this message
func (m *Message) VisibleTo(userID uint64) bool {
	if m.SenderID == userID {
		return m.SenderDeletedAt == nil
	}
	if m.ReceiverID == userID {
		return m.ReceiverDeletedAt == nil
	}
	return false
}

// MessageRequest represents a send message request
type MessageRequest struct {
	ReceiverUsername string `json:"receiver_username" binding:"required"`
	Content          string `json:"content" binding:"required"`
}

// MessageResponse represents a message in API responses.
// Usernames are filled in by the service.
type MessageResponse struct {
	ID               uint64 `json:"id"`
	SenderID         uint64 `json:"sender_id"`
	SenderUsername   string `json:"sender_username,omitempty"`
	ReceiverID       uint64 `json:"receiver_id"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
	Content          string `json:"content"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

// ToResponse converts Message to MessageResponse
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}
