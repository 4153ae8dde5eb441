package domain

import "time"

// Notification types
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_accepted"
	NotificationNoteShared     = "note_shared"
	NotificationRepoShared     = "repository_shared"
	NotificationNewLike        = "new_like"
	NotificationNewComment     = "new_comment"
	NotificationNewFollower    = "new_follower"
	NotificationNewMessage     = "new_message"
)

// Notification is a per-user event record. ReferenceID points at the
// resource the event concerns; ReferenceKind disambiguates the table.
type Notification struct {
	ID            uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        uint64     `gorm:"column:user_id;index" json:"user_id"`
	ActorID       uint64     `gorm:"column:actor_id" json:"actor_id"`
	Type          string     `gorm:"column:type;type:varchar(30)" json:"type"`
	Message       string     `gorm:"column:message;type:varchar(255)" json:"message"`
	ReferenceID   uint64     `gorm:"column:reference_id" json:"reference_id"`
	ReferenceKind string     `gorm:"column:reference_kind;type:varchar(20)" json:"reference_kind"`
	ReadAt        *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// IsRead reports whether the notification has been read
func (n *Notification) IsRead() bool { return n.ReadAt != nil }

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID            uint64 `json:"id"`
	ActorID       uint64 `json:"actor_id"`
	Type          string `json:"type"`
	Message       string `json:"message"`
	ReferenceID   uint64 `json:"reference_id"`
	ReferenceKind string `json:"reference_kind"`
	Read          bool   `json:"read"`
	CreatedAt     string `json:"created_at"`
}

// ToResponse converts Notification to NotificationResponse
func (n *Notification) ToResponse() *NotificationResponse {
	return &NotificationResponse{
		ID:            n.ID,
		ActorID:       n.ActorID,
		Type:          n.Type,
		Message:       n.Message,
		ReferenceID:   n.ReferenceID,
		ReferenceKind: n.ReferenceKind,
		Read:          n.IsRead(),
		CreatedAt:     n.CreatedAt.Format(time.RFC3339),
	}
}
