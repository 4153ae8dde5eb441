package repository

import (
	"errors"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository comment data access interface
type CommentRepository interface {
	Create(comment *domain.Comment) error
	FindByID(id uint64) (*domain.Comment, error)
	FindByTarget(kind domain.ResourceKind, targetID uint64, page, limit int) ([]*domain.Comment, int64, error)
	Update(comment *domain.Comment) error
	Delete(id uint64) error
	CountByTarget(kind domain.ResourceKind, targetID uint64) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a comment
func (r *commentRepository) Create(comment *domain.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID returns a comment by ID
func (r *commentRepository) FindByID(id uint64) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// FindByTarget returns the comments on a note or repository, oldest first
func (r *commentRepository) FindByTarget(kind domain.ResourceKind, targetID uint64, page, limit int) ([]*domain.Comment, int64, error) {
	page, limit = normalizePage(page, limit)

	q := r.db.Model(&domain.Comment{}).
		Where("commentable_kind = ? AND commentable_id = ?", kind, targetID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*domain.Comment
	err := q.Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error
	return comments, total, err
}

// Update saves comment changes
func (r *commentRepository) Update(comment *domain.Comment) error {
	return r.db.Save(comment).Error
}

// Delete soft-deletes a comment
func (r *commentRepository) Delete(id uint64) error {
	result := r.db.Delete(&domain.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrCommentNotFound
	}
	return nil
}

// CountByTarget returns the comment count of a target
func (r *commentRepository) CountByTarget(kind domain.ResourceKind, targetID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Comment{}).
		Where("commentable_kind = ? AND commentable_id = ?", kind, targetID).
		Count(&count).Error
	return count, err
}
