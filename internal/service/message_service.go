package service

import (
	"errors"
	"fmt"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
)

// MessageService direct message business logic
type MessageService interface {
	Send(senderID uint64, req *domain.MessageRequest) (*domain.MessageResponse, error)
	Conversation(userID, otherUserID uint64, page, limit int) ([]*domain.MessageResponse, int64, error)
	ListReceived(userID uint64, page, limit int) ([]*domain.MessageResponse, int64, error)
	ListSent(userID uint64, page, limit int) ([]*domain.MessageResponse, int64, error)
	MarkDelivered(userID, messageID uint64) error
	MarkRead(userID, messageID uint64) error
	Delete(userID, messageID uint64) error
	UnreadCount(userID uint64) (int64, error)
}

type messageService struct {
	messageRepo     repository.MessageRepository
	userRepo        repository.UserRepository
	friendshipRepo  repository.FriendshipRepository
	notificationSvc NotificationService
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	notificationSvc NotificationService,
) MessageService {
	return &messageService{
		messageRepo:     messageRepo,
		userRepo:        userRepo,
		friendshipRepo:  friendshipRepo,
		notificationSvc: notificationSvc,
	}
}

// Send delivers a message to another user. Messaging yourself or a user
// involved in a block with you is refused.
func (s *messageService) Send(senderID uint64, req *domain.MessageRequest) (*domain.MessageResponse, error) {
	receiver, err := s.userRepo.FindByUsername(req.ReceiverUsername)
	if err != nil {
		return nil, err
	}
	if receiver.ID == senderID {
		return nil, common.ErrSelfReference
	}

	relation, err := s.friendshipRepo.FindBetween(senderID, receiver.ID)
	if err != nil && !errors.Is(err, common.ErrFriendshipNotFound) {
		return nil, err
	}
	if relation != nil && relation.Status == domain.FriendshipBlocked {
		return nil, common.ErrNotAuthorized
	}

	message := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Content:    req.Content,
		Status:     domain.MessageSent,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	if sender, err := s.userRepo.FindByID(senderID); err == nil {
		s.notificationSvc.Notify(receiver.ID, senderID, domain.NotificationNewMessage,
			fmt.Sprintf("%s sent you a message", sender.Username),
			message.ID, "message")
	}

	return s.assemble(message), nil
}

// Conversation returns the exchange between the user and another user,
// newest first, and marks the other user's messages as read.
func (s *messageService) Conversation(userID, otherUserID uint64, page, limit int) ([]*domain.MessageResponse, int64, error) {
	if _, err := s.userRepo.FindByID(otherUserID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.messageRepo.Conversation(userID, otherUserID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if err := s.messageRepo.MarkConversationRead(userID, otherUserID); err != nil {
		return nil, 0, err
	}

	return s.assembleList(messages), total, nil
}

// ListReceived returns the user's inbox
func (s *messageService) ListReceived(userID uint64, page, limit int) ([]*domain.MessageResponse, int64, error) {
	messages, total, err := s.messageRepo.ListReceived(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(messages), total, nil
}

// ListSent returns the messages the user sent
func (s *messageService) ListSent(userID uint64, page, limit int) ([]*domain.MessageResponse, int64, error) {
	messages, total, err := s.messageRepo.ListSent(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(messages), total, nil
}

// MarkDelivered advances a message from sent to delivered. Receiver only.
// The status never moves backwards, so delivered and read messages are
// left untouched.
func (s *messageService) MarkDelivered(userID, messageID uint64) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return err
	}
	if message.ReceiverID != userID {
		return common.ErrNotAuthorized
	}
	if message.Status != domain.MessageSent {
		return nil
	}
	return s.messageRepo.UpdateStatus(messageID, domain.MessageDelivered)
}

// MarkRead marks a single message as read. Receiver only.
func (s *messageService) MarkRead(userID, messageID uint64) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return err
	}
	if message.ReceiverID != userID {
		return common.ErrNotAuthorized
	}
	if message.Status == domain.MessageRead {
		return nil
	}
	return s.messageRepo.UpdateStatus(messageID, domain.MessageRead)
}

// Delete hides a message from the caller's view. The other party keeps
// their copy until they delete it too.
func (s *messageService) Delete(userID, messageID uint64) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return err
	}
	if !message.VisibleTo(userID) {
		return common.ErrMessageNotFound
	}
	return s.messageRepo.DeleteFor(messageID, userID)
}

// UnreadCount returns how many received messages are unread
func (s *messageService) UnreadCount(userID uint64) (int64, error) {
	return s.messageRepo.CountUnread(userID)
}

func (s *messageService) assemble(message *domain.Message) *domain.MessageResponse {
	resp := message.ToResponse()
	if sender, err := s.userRepo.FindByID(message.SenderID); err == nil {
		resp.SenderUsername = sender.Username
	}
	if receiver, err := s.userRepo.FindByID(message.ReceiverID); err == nil {
		resp.ReceiverUsername = receiver.Username
	}
	return resp
}

func (s *messageService) assembleList(messages []*domain.Message) []*domain.MessageResponse {
	responses := make([]*domain.MessageResponse, len(messages))
	for i, message := range messages {
		responses[i] = s.assemble(message)
	}
	return responses
}
