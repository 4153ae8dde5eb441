package repository

import (
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// LikeRepository like data access interface
type LikeRepository interface {
	Create(userID, likeableID uint64, kind domain.ResourceKind) error
	Delete(userID, likeableID uint64, kind domain.ResourceKind) error
	Exists(userID, likeableID uint64, kind domain.ResourceKind) (bool, error)
	Count(likeableID uint64, kind domain.ResourceKind) (int64, error)
	ListLikedIDs(userID uint64, kind domain.ResourceKind) ([]uint64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create adds a like edge. Duplicates are rejected by the unique index.
func (r *likeRepository) Create(userID, likeableID uint64, kind domain.ResourceKind) error {
	return r.db.Create(&domain.Like{
		UserID:       userID,
		LikeableID:   likeableID,
		LikeableKind: kind,
	}).Error
}

// Delete removes a like edge
func (r *likeRepository) Delete(userID, likeableID uint64, kind domain.ResourceKind) error {
	result := r.db.Where("user_id = ? AND likeable_id = ? AND likeable_kind = ?",
		userID, likeableID, kind).
		Delete(&domain.Like{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrLikeNotFound
	}
	return nil
}

// Exists checks whether the user has liked the target
func (r *likeRepository) Exists(userID, likeableID uint64, kind domain.ResourceKind) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Like{}).
		Where("user_id = ? AND likeable_id = ? AND likeable_kind = ?", userID, likeableID, kind).
		Count(&count).Error
	return count > 0, err
}

// Count returns the like count of a target
func (r *likeRepository) Count(likeableID uint64, kind domain.ResourceKind) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Like{}).
		Where("likeable_id = ? AND likeable_kind = ?", likeableID, kind).
		Count(&count).Error
	return count, err
}

// ListLikedIDs returns the targets of one kind the user has liked
func (r *likeRepository) ListLikedIDs(userID uint64, kind domain.ResourceKind) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.Like{}).
		Where("user_id = ? AND likeable_kind = ?", userID, kind).
		Pluck("likeable_id", &ids).Error
	return ids, err
}
