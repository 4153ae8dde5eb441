package repository

import (
	"errors"
	"time"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository direct message data access interface
type MessageRepository interface {
	Create(message *domain.Message) error
	FindByID(id uint64) (*domain.Message, error)
	Conversation(userID, otherID uint64, page, limit int) ([]*domain.Message, int64, error)
	ListReceived(userID uint64, page, limit int) ([]*domain.Message, int64, error)
	ListSent(userID uint64, page, limit int) ([]*domain.Message, int64, error)
	UpdateStatus(id uint64, status string) error
	MarkConversationRead(userID, otherID uint64) error
	DeleteFor(id, userID uint64) error
	CountUnread(userID uint64) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a message
func (r *messageRepository) Create(message *domain.Message) error {
	return r.db.Create(message).Error
}

// FindByID returns a message by ID
func (r *messageRepository) FindByID(id uint64) (*domain.Message, error) {
	var message domain.Message
	if err := r.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

// Conversation returns the messages between two users that the requesting
// user has not deleted on their side, newest first.
func (r *messageRepository) Conversation(userID, otherID uint64, page, limit int) ([]*domain.Message, int64, error) {
	q := r.db.Model(&domain.Message{}).
		Where(
			"(sender_id = ? AND receiver_id = ? AND sender_deleted_at IS NULL)"+
				" OR (sender_id = ? AND receiver_id = ? AND receiver_deleted_at IS NULL)",
			userID, otherID, otherID, userID,
		)
	return r.paginate(q, page, limit)
}

// ListReceived returns messages addressed to the user, newest first
func (r *messageRepository) ListReceived(userID uint64, page, limit int) ([]*domain.Message, int64, error) {
	q := r.db.Model(&domain.Message{}).
		Where("receiver_id = ? AND receiver_deleted_at IS NULL", userID)
	return r.paginate(q, page, limit)
}

// ListSent returns messages the user sent, newest first
func (r *messageRepository) ListSent(userID uint64, page, limit int) ([]*domain.Message, int64, error) {
	q := r.db.Model(&domain.Message{}).
		Where("sender_id = ? AND sender_deleted_at IS NULL", userID)
	return r.paginate(q, page, limit)
}

// UpdateStatus advances the delivery status of a message
func (r *messageRepository) UpdateStatus(id uint64, status string) error {
	result := r.db.Model(&domain.Message{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrMessageNotFound
	}
	return nil
}

// MarkConversationRead marks every unread message from the other user as read
func (r *messageRepository) MarkConversationRead(userID, otherID uint64) error {
	return r.db.Model(&domain.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND status != ?",
			userID, otherID, domain.MessageRead).
		Update("status", domain.MessageRead).Error
}

// DeleteFor hides a message from one party's view. The row is removed once
// both parties have deleted it.
func (r *messageRepository) DeleteFor(id, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var message domain.Message
		if err := tx.First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrMessageNotFound
			}
			return err
		}

		now := time.Now()
		switch userID {
		case message.SenderID:
			message.SenderDeletedAt = &now
		case message.ReceiverID:
			message.ReceiverDeletedAt = &now
		default:
			return common.ErrNotAuthorized
		}

		if message.SenderDeletedAt != nil && message.ReceiverDeletedAt != nil {
			return tx.Delete(&message).Error
		}
		return tx.Save(&message).Error
	})
}

// CountUnread returns how many received messages are not yet read
func (r *messageRepository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("receiver_id = ? AND receiver_deleted_at IS NULL AND status != ?",
			userID, domain.MessageRead).
		Count(&count).Error
	return count, err
}

func (r *messageRepository) paginate(q *gorm.DB, page, limit int) ([]*domain.Message, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*domain.Message
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	return messages, total, err
}
