package domain

import "time"

// Permission levels for share grants
const (
	PermissionRead  = "read"
	PermissionWrite = "write"
)

// ResourceKind identifies which table a polymorphic relation targets
type ResourceKind string

// Resource kinds
const (
	KindNote       ResourceKind = "note"
	KindRepository ResourceKind = "repository"
)

// Protected is the capability shared by notes and repositories that the
// access resolver operates on: an owner, a visibility, and a typed identity
// under which explicit share grants are stored.
type Protected interface {
	OwnerID() uint64
	IsPublic() bool
	ResourceID() uint64
	Kind() ResourceKind
}

// SharedNote grants a user explicit access to a note.
// At most one grant per (note, user) pair.
type SharedNote struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NoteID     uint64    `gorm:"column:note_id;uniqueIndex:uq_shared_notes" json:"note_id"`
	UserID     uint64    `gorm:"column:user_id;uniqueIndex:uq_shared_notes" json:"user_id"`
	Permission string    `gorm:"column:permission;type:varchar(10)" json:"permission"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SharedNote) TableName() string { return "shared_notes" }

// SharedRepository grants a user explicit access to a repository.
// At most one grant per (repository, user) pair.
type SharedRepository struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RepositoryID uint64    `gorm:"column:repository_id;uniqueIndex:uq_shared_repositories" json:"repository_id"`
	UserID       uint64    `gorm:"column:user_id;uniqueIndex:uq_shared_repositories" json:"user_id"`
	Permission   string    `gorm:"column:permission;type:varchar(10)" json:"permission"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SharedRepository) TableName() string { return "shared_repositories" }

// Grant is the storage-independent view of a share record the access
// resolver consumes.
type Grant struct {
	UserID     uint64
	Permission string
}

// ShareRequest represents a share/permission-update request
type ShareRequest struct {
	Username   string `json:"username" binding:"required"`
	Permission string `json:"permission" binding:"required,oneof=read write"`
}

// ShareResponse represents a grant in API responses
type ShareResponse struct {
	Username   string `json:"username"`
	UserID     uint64 `json:"user_id"`
	Permission string `json:"permission"`
	SharedAt   string `json:"shared_at"`
}
