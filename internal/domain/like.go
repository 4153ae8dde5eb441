package domain

import "time"

// Like is a polymorphic edge from a user to a note or repository, keyed by
// (user, likeable id, likeable kind). The composite unique index is the
// authoritative duplicate guard.
type Like struct {
	ID           uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       uint64       `gorm:"column:user_id;uniqueIndex:uq_likes" json:"user_id"`
	LikeableID   uint64       `gorm:"column:likeable_id;uniqueIndex:uq_likes" json:"likeable_id"`
	LikeableKind ResourceKind `gorm:"column:likeable_kind;type:varchar(10);uniqueIndex:uq_likes" json:"likeable_kind"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Like) TableName() string { return "likes" }

// LikeResponse reports the like state after a toggle
type LikeResponse struct {
	LikeableID   uint64       `json:"likeable_id"`
	LikeableKind ResourceKind `json:"likeable_kind"`
	Liked        bool         `json:"liked"`
	LikeCount    int64        `json:"like_count"`
}
