package domain

import "time"

// Follow is an edge from a user to a repository.
// The composite unique index is the authoritative duplicate guard.
type Follow struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FollowerID   uint64    `gorm:"column:follower_id;uniqueIndex:uq_follows" json:"follower_id"`
	RepositoryID uint64    `gorm:"column:repository_id;uniqueIndex:uq_follows" json:"repository_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Follow) TableName() string { return "follows" }

// FollowResponse reports the follow state after a toggle
type FollowResponse struct {
	RepositoryID  uint64 `json:"repository_id"`
	Following     bool   `json:"following"`
	FollowerCount int64  `json:"follower_count"`
}
