package service

import (
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
	"github.com/notesphere/backend/pkg/logger"
)

// NotificationService notification business logic. Emitting never fails the
// triggering operation; storage errors are only logged.
type NotificationService interface {
	List(userID uint64, unreadOnly bool, page, limit int) ([]*domain.NotificationResponse, int64, error)
	MarkRead(id, userID uint64) error
	MarkAllRead(userID uint64) error
	UnreadCount(userID uint64) (int64, error)
	Delete(id, userID uint64) error

	Notify(userID, actorID uint64, notificationType, message string, referenceID uint64, referenceKind string)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// List returns the user's notifications
func (s *notificationService) List(userID uint64, unreadOnly bool, page, limit int) ([]*domain.NotificationResponse, int64, error) {
	notifications, total, err := s.notificationRepo.ListForUser(userID, unreadOnly, page, limit)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*domain.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = n.ToResponse()
	}
	return responses, total, nil
}

// MarkRead marks one notification as read
func (s *notificationService) MarkRead(id, userID uint64) error {
	return s.notificationRepo.MarkRead(id, userID)
}

// MarkAllRead marks all of the user's notifications as read
func (s *notificationService) MarkAllRead(userID uint64) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// UnreadCount returns the unread notification count
func (s *notificationService) UnreadCount(userID uint64) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// Delete removes a notification
func (s *notificationService) Delete(id, userID uint64) error {
	return s.notificationRepo.Delete(id, userID)
}

// Notify stores a notification for the user. Events a user triggers on
// their own resources are dropped.
func (s *notificationService) Notify(userID, actorID uint64, notificationType, message string, referenceID uint64, referenceKind string) {
	if userID == actorID || userID == 0 {
		return
	}
	n := &domain.Notification{
		UserID:        userID,
		ActorID:       actorID,
		Type:          notificationType,
		Message:       message,
		ReferenceID:   referenceID,
		ReferenceKind: referenceKind,
	}
	if err := s.notificationRepo.Create(n); err != nil {
		logger.GetLogger().Warn().
			Err(err).
			Str("type", notificationType).
			Uint64("user_id", userID).
			Msg("failed to store notification")
	}
}
