package domain

import (
	"time"

	"gorm.io/gorm"
)

// Repository is a named collection of notes
type Repository struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatorID   uint64         `gorm:"column:creator_id;index" json:"creator_id"`
	Name        string         `gorm:"column:name;type:varchar(255)" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Visibility  string         `gorm:"column:visibility;type:varchar(10);default:'private'" json:"visibility"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Repository) TableName() string { return "repositories" }

// OwnerID implements Protected
func (r *Repository) OwnerID() uint64 { return r.CreatorID }

// IsPublic implements Protected
func (r *Repository) IsPublic() bool { return r.Visibility == VisibilityPublic }

// ResourceID implements Protected
func (r *Repository) ResourceID() uint64 { return r.ID }

// Kind implements Protected
func (r *Repository) Kind() ResourceKind { return KindRepository }

// RepositoryRequest represents a create/update repository request
type RepositoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

// RepositoryResponse represents a repository in API responses
type RepositoryResponse struct {
	ID              uint64 `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	CreatorID       uint64 `json:"creator_id"`
	CreatorUsername string `json:"creator_username,omitempty"`
	Visibility      string `json:"visibility"`
	NoteCount       int64  `json:"note_count"`
	FollowerCount   int64  `json:"follower_count"`
	LikeCount       int64  `json:"like_count"`
	FollowedByMe    bool   `json:"followed_by_me"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// ToResponse converts Repository to RepositoryResponse; relation counts
// are filled by the service.
func (r *Repository) ToResponse() *RepositoryResponse {
	return &RepositoryResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatorID:   r.CreatorID,
		Visibility:  r.Visibility,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}
