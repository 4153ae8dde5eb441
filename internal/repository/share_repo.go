package repository

import (
	"errors"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// ShareRepository share grant data access interface. Grants for notes and
// repositories live in separate tables; the kind argument selects which.
type ShareRepository interface {
	Create(kind domain.ResourceKind, resourceID, userID uint64, permission string) error
	Find(kind domain.ResourceKind, resourceID, userID uint64) (*domain.Grant, error)
	UpdatePermission(kind domain.ResourceKind, resourceID, userID uint64, permission string) error
	Delete(kind domain.ResourceKind, resourceID, userID uint64) error
	ListByResource(kind domain.ResourceKind, resourceID uint64) ([]*domain.Grant, error)
}

type shareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new ShareRepository
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

// Create inserts a grant. The composite unique index rejects duplicates,
// which callers map to an already-shared error.
func (r *shareRepository) Create(kind domain.ResourceKind, resourceID, userID uint64, permission string) error {
	if kind == domain.KindNote {
		return r.db.Create(&domain.SharedNote{
			NoteID:     resourceID,
			UserID:     userID,
			Permission: permission,
		}).Error
	}
	return r.db.Create(&domain.SharedRepository{
		RepositoryID: resourceID,
		UserID:       userID,
		Permission:   permission,
	}).Error
}

// Find returns the grant for a (resource, user) pair
func (r *shareRepository) Find(kind domain.ResourceKind, resourceID, userID uint64) (*domain.Grant, error) {
	var row struct {
		Permission string `gorm:"column:permission"`
	}
	result := r.scope(kind, resourceID).
		Where("user_id = ?", userID).
		Select("permission").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, common.ErrShareNotFound
	}
	return &domain.Grant{UserID: userID, Permission: row.Permission}, nil
}

// UpdatePermission changes the permission of an existing grant
func (r *shareRepository) UpdatePermission(kind domain.ResourceKind, resourceID, userID uint64, permission string) error {
	result := r.scope(kind, resourceID).
		Where("user_id = ?", userID).
		Update("permission", permission)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrShareNotFound
	}
	return nil
}

// Delete revokes a grant
func (r *shareRepository) Delete(kind domain.ResourceKind, resourceID, userID uint64) error {
	var result *gorm.DB
	if kind == domain.KindNote {
		result = r.db.Where("note_id = ? AND user_id = ?", resourceID, userID).
			Delete(&domain.SharedNote{})
	} else {
		result = r.db.Where("repository_id = ? AND user_id = ?", resourceID, userID).
			Delete(&domain.SharedRepository{})
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrShareNotFound
	}
	return nil
}

// ListByResource returns all grants on a resource
func (r *shareRepository) ListByResource(kind domain.ResourceKind, resourceID uint64) ([]*domain.Grant, error) {
	var rows []struct {
		UserID     uint64 `gorm:"column:user_id"`
		Permission string `gorm:"column:permission"`
	}
	err := r.scope(kind, resourceID).
		Select("user_id, permission").
		Order("user_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	grants := make([]*domain.Grant, len(rows))
	for i, row := range rows {
		grants[i] = &domain.Grant{UserID: row.UserID, Permission: row.Permission}
	}
	return grants, nil
}

func (r *shareRepository) scope(kind domain.ResourceKind, resourceID uint64) *gorm.DB {
	if kind == domain.KindNote {
		return r.db.Model(&domain.SharedNote{}).Where("note_id = ?", resourceID)
	}
	return r.db.Model(&domain.SharedRepository{}).Where("repository_id = ?", resourceID)
}

// IsDuplicate reports whether an insert failed on a unique index
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
