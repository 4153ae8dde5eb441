package domain

import (
	"time"

	"gorm.io/gorm"
)

// Comment belongs to a user and a typed target. Repository comments carry
// the repository id in CommentableID, same as note comments carry the note
// id, so lookups are always keyed by (kind, id).
type Comment struct {
	ID              uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID          uint64         `gorm:"column:user_id;index" json:"user_id"`
	CommentableID   uint64         `gorm:"column:commentable_id;index:idx_comments_target" json:"commentable_id"`
	CommentableKind ResourceKind   `gorm:"column:commentable_kind;type:varchar(10);index:idx_comments_target" json:"commentable_kind"`
	Content         string         `gorm:"column:content;type:text" json:"content"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Comment) TableName() string { return "comments" }

// CommentRequest represents a create comment request
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID         uint64       `json:"id"`
	UserID     uint64       `json:"user_id"`
	Username   string       `json:"username,omitempty"`
	TargetID   uint64       `json:"target_id"`
	TargetKind ResourceKind `json:"target_kind"`
	Content    string       `json:"content"`
	CreatedAt  string       `json:"created_at"`
}

// ToResponse converts Comment to CommentResponse
func (cm *Comment) ToResponse() *CommentResponse {
	return &CommentResponse{
		ID:         cm.ID,
		UserID:     cm.UserID,
		TargetID:   cm.CommentableID,
		TargetKind: cm.CommentableKind,
		Content:    cm.Content,
		CreatedAt:  cm.CreatedAt.Format(time.RFC3339),
	}
}
