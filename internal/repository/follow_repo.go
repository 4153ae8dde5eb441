package repository

import (
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// FollowRepository follow data access interface
type FollowRepository interface {
	Create(followerID, repositoryID uint64) error
	Delete(followerID, repositoryID uint64) error
	Exists(followerID, repositoryID uint64) (bool, error)
	CountByRepository(repositoryID uint64) (int64, error)
	ListRepositoryIDs(followerID uint64) ([]uint64, error)
	ListFollowerIDs(repositoryID uint64) ([]uint64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create adds a follow edge. Duplicates are rejected by the unique index.
func (r *followRepository) Create(followerID, repositoryID uint64) error {
	return r.db.Create(&domain.Follow{
		FollowerID:   followerID,
		RepositoryID: repositoryID,
	}).Error
}

// Delete removes a follow edge
func (r *followRepository) Delete(followerID, repositoryID uint64) error {
	result := r.db.Where("follower_id = ? AND repository_id = ?", followerID, repositoryID).
		Delete(&domain.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrFollowNotFound
	}
	return nil
}

// Exists checks whether the user follows the repository
func (r *followRepository) Exists(followerID, repositoryID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Follow{}).
		Where("follower_id = ? AND repository_id = ?", followerID, repositoryID).
		Count(&count).Error
	return count > 0, err
}

// CountByRepository returns the follower count of a repository
func (r *followRepository) CountByRepository(repositoryID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Follow{}).
		Where("repository_id = ?", repositoryID).
		Count(&count).Error
	return count, err
}

// ListRepositoryIDs returns the repositories a user follows
func (r *followRepository) ListRepositoryIDs(followerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("repository_id", &ids).Error
	return ids, err
}

// ListFollowerIDs returns the users following a repository
func (r *followRepository) ListFollowerIDs(repositoryID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.Follow{}).
		Where("repository_id = ?", repositoryID).
		Pluck("follower_id", &ids).Error
	return ids, err
}
