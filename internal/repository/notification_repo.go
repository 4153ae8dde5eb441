package repository

import (
	"time"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// NotificationRepository notification data access interface
type NotificationRepository interface {
	Create(n *domain.Notification) error
	ListForUser(userID uint64, unreadOnly bool, page, limit int) ([]*domain.Notification, int64, error)
	MarkRead(id, userID uint64) error
	MarkAllRead(userID uint64) error
	CountUnread(userID uint64) (int64, error)
	Delete(id, userID uint64) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a notification
func (r *notificationRepository) Create(n *domain.Notification) error {
	return r.db.Create(n).Error
}

// ListForUser returns the user's notifications, newest first
func (r *notificationRepository) ListForUser(userID uint64, unreadOnly bool, page, limit int) ([]*domain.Notification, int64, error) {
	page, limit = normalizePage(page, limit)

	q := r.db.Model(&domain.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*domain.Notification
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

// MarkRead stamps a single notification as read
func (r *notificationRepository) MarkRead(id, userID uint64) error {
	result := r.db.Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead stamps every unread notification of the user as read
func (r *notificationRepository) MarkAllRead(userID uint64) error {
	return r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now()).Error
}

// CountUnread returns the number of unread notifications
func (r *notificationRepository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// Delete removes a notification owned by the user
func (r *notificationRepository) Delete(id, userID uint64) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotificationNotFound
	}
	return nil
}
