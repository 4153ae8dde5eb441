package repository

import (
	"errors"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// FriendshipRepository friendship data access interface
type FriendshipRepository interface {
	Create(f *domain.Friendship) error
	FindByID(id uint64) (*domain.Friendship, error)
	FindBetween(userA, userB uint64) (*domain.Friendship, error)
	Update(f *domain.Friendship) error
	Delete(id uint64) error
	ListFriends(userID uint64, page, limit int) ([]*domain.Friendship, int64, error)
	ListPendingReceived(userID uint64, page, limit int) ([]*domain.Friendship, int64, error)
	ListPendingSent(userID uint64, page, limit int) ([]*domain.Friendship, int64, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates a new FriendshipRepository
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create inserts a friendship row
func (r *friendshipRepository) Create(f *domain.Friendship) error {
	return r.db.Create(f).Error
}

// FindByID returns a friendship by ID
func (r *friendshipRepository) FindByID(id uint64) (*domain.Friendship, error) {
	var f domain.Friendship
	if err := r.db.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrFriendshipNotFound
		}
		return nil, err
	}
	return &f, nil
}

// FindBetween returns the single friendship row between two users,
// whichever direction it was created in.
func (r *friendshipRepository) FindBetween(userA, userB uint64) (*domain.Friendship, error) {
	var f domain.Friendship
	err := r.db.Where(
		"(requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)",
		userA, userB, userB, userA,
	).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrFriendshipNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Update saves friendship changes
func (r *friendshipRepository) Update(f *domain.Friendship) error {
	return r.db.Save(f).Error
}

// Delete removes a friendship row
func (r *friendshipRepository) Delete(id uint64) error {
	result := r.db.Delete(&domain.Friendship{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrFriendshipNotFound
	}
	return nil
}

// ListFriends returns accepted friendships involving the user
func (r *friendshipRepository) ListFriends(userID uint64, page, limit int) ([]*domain.Friendship, int64, error) {
	q := r.db.Model(&domain.Friendship{}).
		Where("(requester_id = ? OR receiver_id = ?) AND status = ?",
			userID, userID, domain.FriendshipAccepted)
	return r.paginate(q, page, limit)
}

// ListPendingReceived returns requests waiting on the user's decision
func (r *friendshipRepository) ListPendingReceived(userID uint64, page, limit int) ([]*domain.Friendship, int64, error) {
	q := r.db.Model(&domain.Friendship{}).
		Where("receiver_id = ? AND status = ?", userID, domain.FriendshipPending)
	return r.paginate(q, page, limit)
}

// ListPendingSent returns requests the user has sent and not yet answered
func (r *friendshipRepository) ListPendingSent(userID uint64, page, limit int) ([]*domain.Friendship, int64, error) {
	q := r.db.Model(&domain.Friendship{}).
		Where("requester_id = ? AND status = ?", userID, domain.FriendshipPending)
	return r.paginate(q, page, limit)
}

func (r *friendshipRepository) paginate(q *gorm.DB, page, limit int) ([]*domain.Friendship, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*domain.Friendship
	err := q.Order("updated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
