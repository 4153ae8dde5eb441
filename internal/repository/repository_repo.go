package repository

import (
	"errors"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// RepoRepository repository (note collection) data access interface
type RepoRepository interface {
	Create(repo *domain.Repository) error
	FindByID(id uint64) (*domain.Repository, error)
	FindByCreator(creatorID uint64, page, limit int) ([]*domain.Repository, int64, error)
	FindPublic(page, limit int) ([]*domain.Repository, int64, error)
	FindSharedWith(userID uint64, page, limit int) ([]*domain.Repository, int64, error)
	Search(query string, page, limit int) ([]*domain.Repository, int64, error)
	Update(repo *domain.Repository) error
	Delete(id uint64) error
}

type repoRepository struct {
	db *gorm.DB
}

// NewRepoRepository creates a new RepoRepository
func NewRepoRepository(db *gorm.DB) RepoRepository {
	return &repoRepository{db: db}
}

// Create inserts a new repository
func (r *repoRepository) Create(repo *domain.Repository) error {
	return r.db.Create(repo).Error
}

// FindByID returns a repository by ID
func (r *repoRepository) FindByID(id uint64) (*domain.Repository, error) {
	var repo domain.Repository
	if err := r.db.First(&repo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRepositoryNotFound
		}
		return nil, err
	}
	return &repo, nil
}

// FindByCreator returns repositories owned by a user, newest first
func (r *repoRepository) FindByCreator(creatorID uint64, page, limit int) ([]*domain.Repository, int64, error) {
	return r.paginate(r.db.Model(&domain.Repository{}).Where("creator_id = ?", creatorID), page, limit)
}

// FindPublic returns publicly visible repositories, newest first
func (r *repoRepository) FindPublic(page, limit int) ([]*domain.Repository, int64, error) {
	return r.paginate(r.db.Model(&domain.Repository{}).Where("visibility = ?", domain.VisibilityPublic), page, limit)
}

// FindSharedWith returns repositories that carry an explicit grant for the user
func (r *repoRepository) FindSharedWith(userID uint64, page, limit int) ([]*domain.Repository, int64, error) {
	q := r.db.Model(&domain.Repository{}).
		Joins("JOIN shared_repositories sr ON sr.repository_id = repositories.id").
		Where("sr.user_id = ?", userID)
	return r.paginate(q, page, limit)
}

// Search matches repositories by name or description
func (r *repoRepository) Search(query string, page, limit int) ([]*domain.Repository, int64, error) {
	pattern := "%" + query + "%"
	q := r.db.Model(&domain.Repository{}).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	return r.paginate(q, page, limit)
}

// Update saves repository changes
func (r *repoRepository) Update(repo *domain.Repository) error {
	return r.db.Save(repo).Error
}

// Delete soft-deletes a repository and removes its note links, grants and follows
func (r *repoRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Repository{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrRepositoryNotFound
		}
		if err := tx.Exec("DELETE FROM note_repositories WHERE repository_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("repository_id = ?", id).Delete(&domain.SharedRepository{}).Error; err != nil {
			return err
		}
		return tx.Where("repository_id = ?", id).Delete(&domain.Follow{}).Error
	})
}

func (r *repoRepository) paginate(q *gorm.DB, page, limit int) ([]*domain.Repository, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var repos []*domain.Repository
	err := q.Order("repositories.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&repos).Error
	return repos, total, err
}
