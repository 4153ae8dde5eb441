package repository

import (
	"errors"
	"time"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id uint64) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	Update(user *domain.User) error
	UpdateLastLogin(id uint64, at time.Time) error
	Delete(id uint64) error
	Search(query string, page, limit int) ([]*domain.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user
func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

// FindByID returns a user by ID
func (r *userRepository) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns a user by username
func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by email
func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update saves user changes
func (r *userRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}

// UpdateLastLogin stamps the last successful login time
func (r *userRepository) UpdateLastLogin(id uint64, at time.Time) error {
	return r.db.Model(&domain.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// Delete soft-deletes a user
func (r *userRepository) Delete(id uint64) error {
	result := r.db.Delete(&domain.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// Search returns users whose username or nickname matches the query
func (r *userRepository) Search(query string, page, limit int) ([]*domain.User, int64, error) {
	page, limit = normalizePage(page, limit)

	q := r.db.Model(&domain.User{}).
		Where("username LIKE ? OR nickname LIKE ?", "%"+query+"%", "%"+query+"%")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*domain.User
	err := q.Order("username ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}
