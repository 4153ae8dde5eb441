package domain

import (
	"time"

	"gorm.io/gorm"
)

// Visibility values shared by notes and repositories
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Note represents a single note, owned by exactly one creator.
// Repository membership is many-to-many via the note_repositories join table.
type Note struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatorID    uint64         `gorm:"column:creator_id;index" json:"creator_id"`
	Title        string         `gorm:"column:title;type:varchar(255)" json:"title"`
	Content      string         `gorm:"column:content;type:mediumtext" json:"content"`
	Visibility   string         `gorm:"column:visibility;type:varchar(10);default:'private'" json:"visibility"`
	Repositories []Repository   `gorm:"many2many:note_repositories" json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Note) TableName() string { return "notes" }

// OwnerID implements Protected
func (n *Note) OwnerID() uint64 { return n.CreatorID }

// IsPublic implements Protected
func (n *Note) IsPublic() bool { return n.Visibility == VisibilityPublic }

// ResourceID implements Protected
func (n *Note) ResourceID() uint64 { return n.ID }

// Kind implements Protected
func (n *Note) Kind() ResourceKind { return KindNote }

// NoteRequest represents a create/update note request
type NoteRequest struct {
	Title        string  `json:"title" binding:"required"`
	Content      string  `json:"content"`
	Public       bool    `json:"public"`
	RepositoryID *uint64 `json:"repository_id"`
}

// NoteResponse represents a note in API responses
type NoteResponse struct {
	ID              uint64   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	CreatorID       uint64   `json:"creator_id"`
	CreatorUsername string   `json:"creator_username,omitempty"`
	Visibility      string   `json:"visibility"`
	LikeCount       int64    `json:"like_count"`
	LikedByMe       bool     `json:"liked_by_me"`
	RepositoryIDs   []uint64 `json:"repository_ids"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// ToResponse converts Note to NoteResponse without relation counts;
// the service fills like/repository data from the relation stores.
func (n *Note) ToResponse() *NoteResponse {
	return &NoteResponse{
		ID:            n.ID,
		Title:         n.Title,
		Content:       n.Content,
		CreatorID:     n.CreatorID,
		Visibility:    n.Visibility,
		RepositoryIDs: []uint64{},
		CreatedAt:     n.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     n.UpdatedAt.Format(time.RFC3339),
	}
}
