package domain

import "time"

// Friendship status values
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
	FriendshipBlocked  = "blocked"
)

// Friendship is a directed edge from requester to receiver. At most one row
// exists per unordered user pair; the repository checks both orderings.
type Friendship struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RequesterID uint64    `gorm:"column:requester_id;index" json:"requester_id"`
	ReceiverID  uint64    `gorm:"column:receiver_id;index" json:"receiver_id"`
	Status      string    `gorm:"column:status;type:varchar(10);default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Friendship) TableName() string { return "friendships" }

// OtherParty returns the endpoint that is not the given user
func (f *Friendship) OtherParty(userID uint64) uint64 {
	if f.RequesterID == userID {
		return f.ReceiverID
	}
	return f.RequesterID
}

// FriendshipResponse represents a friendship in API responses.
// Usernames are filled in by the service.
type FriendshipResponse struct {
	ID                uint64 `json:"id"`
	RequesterID       uint64 `json:"requester_id"`
	RequesterUsername string `json:"requester_username,omitempty"`
	ReceiverID        uint64 `json:"receiver_id"`
	ReceiverUsername  string `json:"receiver_username,omitempty"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
}

// ToResponse converts Friendship to FriendshipResponse
func (f *Friendship) ToResponse() *FriendshipResponse {
	return &FriendshipResponse{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		ReceiverID:  f.ReceiverID,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
	}
}
