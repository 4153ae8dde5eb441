package service

import (
	"errors"
	"fmt"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
)

// FriendToggleResult reports the relation state after a toggle
type FriendToggleResult struct {
	Status     string                     `json:"status"` // none, pending, accepted
	Friendship *domain.FriendshipResponse `json:"friendship,omitempty"`
}

// FriendshipService friendship state machine. A single row represents the
// relation between two users regardless of direction; its status moves
// through pending, accepted, rejected and blocked.
type FriendshipService interface {
	Request(requesterID uint64, receiverUsername string) (*domain.FriendshipResponse, error)
	Accept(userID, friendshipID uint64) (*domain.FriendshipResponse, error)
	Reject(userID, friendshipID uint64) (*domain.FriendshipResponse, error)
	Unfriend(userID, otherUserID uint64) error
	Block(userID, targetUserID uint64) error
	Unblock(userID, targetUserID uint64) error
	Toggle(userID, targetUserID uint64) (*FriendToggleResult, error)
	ListFriends(userID uint64, page, limit int) ([]*domain.UserResponse, int64, error)
	ListPendingReceived(userID uint64, page, limit int) ([]*domain.FriendshipResponse, int64, error)
	ListPendingSent(userID uint64, page, limit int) ([]*domain.FriendshipResponse, int64, error)
}

type friendshipService struct {
	friendshipRepo  repository.FriendshipRepository
	userRepo        repository.UserRepository
	notificationSvc NotificationService
}

// NewFriendshipService creates a new FriendshipService
func NewFriendshipService(
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notificationSvc NotificationService,
) FriendshipService {
	return &friendshipService{
		friendshipRepo:  friendshipRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
	}
}

// Request sends a friend request. A rejected relation may be re-requested;
// pending, accepted and blocked relations refuse a new request.
func (s *friendshipService) Request(requesterID uint64, receiverUsername string) (*domain.FriendshipResponse, error) {
	receiver, err := s.userRepo.FindByUsername(receiverUsername)
	if err != nil {
		return nil, err
	}
	if receiver.ID == requesterID {
		return nil, common.ErrSelfReference
	}

	existing, err := s.friendshipRepo.FindBetween(requesterID, receiver.ID)
	if err != nil && !errors.Is(err, common.ErrFriendshipNotFound) {
		return nil, err
	}

	if existing == nil {
		f := &domain.Friendship{
			RequesterID: requesterID,
			ReceiverID:  receiver.ID,
			Status:      domain.FriendshipPending,
		}
		if err := s.friendshipRepo.Create(f); err != nil {
			return nil, err
		}
		s.notifyRequest(f)
		return s.assemble(f), nil
	}

	switch existing.Status {
	case domain.FriendshipPending, domain.FriendshipAccepted:
		return nil, common.ErrFriendshipExists
	case domain.FriendshipBlocked:
		return nil, common.ErrInvalidState
	case domain.FriendshipRejected:
		existing.RequesterID = requesterID
		existing.ReceiverID = receiver.ID
		existing.Status = domain.FriendshipPending
		if err := s.friendshipRepo.Update(existing); err != nil {
			return nil, err
		}
		s.notifyRequest(existing)
		return s.assemble(existing), nil
	default:
		return nil, common.ErrInvalidState
	}
}

// Accept confirms a pending request. Only the receiver may accept.
func (s *friendshipService) Accept(userID, friendshipID uint64) (*domain.FriendshipResponse, error) {
	f, err := s.answerable(userID, friendshipID)
	if err != nil {
		return nil, err
	}

	f.Status = domain.FriendshipAccepted
	if err := s.friendshipRepo.Update(f); err != nil {
		return nil, err
	}

	if receiver, err := s.userRepo.FindByID(f.ReceiverID); err == nil {
		s.notificationSvc.Notify(f.RequesterID, f.ReceiverID, domain.NotificationFriendAccepted,
			fmt.Sprintf("%s accepted your friend request", receiver.Username),
			f.ID, "friendship")
	}
	return s.assemble(f), nil
}

// Reject declines a pending request. Only the receiver may reject.
func (s *friendshipService) Reject(userID, friendshipID uint64) (*domain.FriendshipResponse, error) {
	f, err := s.answerable(userID, friendshipID)
	if err != nil {
		return nil, err
	}

	f.Status = domain.FriendshipRejected
	if err := s.friendshipRepo.Update(f); err != nil {
		return nil, err
	}
	return s.assemble(f), nil
}

// answerable loads a friendship the user may answer: the user must be the
// receiver and the request must still be pending.
func (s *friendshipService) answerable(userID, friendshipID uint64) (*domain.Friendship, error) {
	f, err := s.friendshipRepo.FindByID(friendshipID)
	if err != nil {
		return nil, err
	}
	if f.ReceiverID != userID {
		return nil, common.ErrNotAuthorized
	}
	if f.Status != domain.FriendshipPending {
		return nil, common.ErrInvalidState
	}
	return f, nil
}

// Unfriend removes an accepted friendship. Either party may end it.
func (s *friendshipService) Unfriend(userID, otherUserID uint64) error {
	f, err := s.friendshipRepo.FindBetween(userID, otherUserID)
	if err != nil {
		return err
	}
	if f.Status != domain.FriendshipAccepted {
		return common.ErrInvalidState
	}
	return s.friendshipRepo.Delete(f.ID)
}

// Block puts the relation into the blocked state, replacing whatever state
// it was in. The blocker becomes the requester so Unblock can tell who
// owns the block.
func (s *friendshipService) Block(userID, targetUserID uint64) error {
	if userID == targetUserID {
		return common.ErrSelfReference
	}
	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		return err
	}

	existing, err := s.friendshipRepo.FindBetween(userID, targetUserID)
	if err != nil {
		if !errors.Is(err, common.ErrFriendshipNotFound) {
			return err
		}
		return s.friendshipRepo.Create(&domain.Friendship{
			RequesterID: userID,
			ReceiverID:  targetUserID,
			Status:      domain.FriendshipBlocked,
		})
	}

	if existing.Status == domain.FriendshipBlocked && existing.RequesterID != userID {
		// Already blocked by the other side; do not take over their block
		return common.ErrInvalidState
	}

	existing.RequesterID = userID
	existing.ReceiverID = targetUserID
	existing.Status = domain.FriendshipBlocked
	return s.friendshipRepo.Update(existing)
}

// Unblock removes a block the user placed
func (s *friendshipService) Unblock(userID, targetUserID uint64) error {
	f, err := s.friendshipRepo.FindBetween(userID, targetUserID)
	if err != nil {
		return err
	}
	if f.Status != domain.FriendshipBlocked {
		return common.ErrInvalidState
	}
	if f.RequesterID != userID {
		return common.ErrNotAuthorized
	}
	return s.friendshipRepo.Delete(f.ID)
}

// Toggle flips the relation from the user's point of view. No relation
// becomes a pending request; a pending request the user received is
// accepted; a pending request the user sent is cancelled; an accepted
// friendship is ended. Blocked relations cannot be toggled.
func (s *friendshipService) Toggle(userID, targetUserID uint64) (*FriendToggleResult, error) {
	if userID == targetUserID {
		return nil, common.ErrSelfReference
	}
	target, err := s.userRepo.FindByID(targetUserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.friendshipRepo.FindBetween(userID, targetUserID)
	if err != nil && !errors.Is(err, common.ErrFriendshipNotFound) {
		return nil, err
	}

	if existing == nil {
		resp, err := s.Request(userID, target.Username)
		if err != nil {
			return nil, err
		}
		return &FriendToggleResult{Status: domain.FriendshipPending, Friendship: resp}, nil
	}

	switch existing.Status {
	case domain.FriendshipPending:
		if existing.ReceiverID == userID {
			resp, err := s.Accept(userID, existing.ID)
			if err != nil {
				return nil, err
			}
			return &FriendToggleResult{Status: domain.FriendshipAccepted, Friendship: resp}, nil
		}
		// The user sent the request; toggling cancels it
		if err := s.friendshipRepo.Delete(existing.ID); err != nil {
			return nil, err
		}
		return &FriendToggleResult{Status: "none"}, nil
	case domain.FriendshipAccepted:
		if err := s.friendshipRepo.Delete(existing.ID); err != nil {
			return nil, err
		}
		return &FriendToggleResult{Status: "none"}, nil
	case domain.FriendshipRejected:
		existing.RequesterID = userID
		existing.ReceiverID = targetUserID
		existing.Status = domain.FriendshipPending
		if err := s.friendshipRepo.Update(existing); err != nil {
			return nil, err
		}
		s.notifyRequest(existing)
		return &FriendToggleResult{Status: domain.FriendshipPending, Friendship: s.assemble(existing)}, nil
	default:
		return nil, common.ErrInvalidState
	}
}

// ListFriends returns the user's accepted friends as profiles
func (s *friendshipService) ListFriends(userID uint64, page, limit int) ([]*domain.UserResponse, int64, error) {
	friendships, total, err := s.friendshipRepo.ListFriends(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	friends := make([]*domain.UserResponse, 0, len(friendships))
	for _, f := range friendships {
		friend, err := s.userRepo.FindByID(f.OtherParty(userID))
		if err != nil {
			continue
		}
		friends = append(friends, friend.ToResponse())
	}
	return friends, total, nil
}

// ListPendingReceived returns requests awaiting the user's answer
func (s *friendshipService) ListPendingReceived(userID uint64, page, limit int) ([]*domain.FriendshipResponse, int64, error) {
	friendships, total, err := s.friendshipRepo.ListPendingReceived(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(friendships), total, nil
}

// ListPendingSent returns requests the user sent that are still open
func (s *friendshipService) ListPendingSent(userID uint64, page, limit int) ([]*domain.FriendshipResponse, int64, error) {
	friendships, total, err := s.friendshipRepo.ListPendingSent(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(friendships), total, nil
}

func (s *friendshipService) assemble(f *domain.Friendship) *domain.FriendshipResponse {
	resp := f.ToResponse()
	if requester, err := s.userRepo.FindByID(f.RequesterID); err == nil {
		resp.RequesterUsername = requester.Username
	}
	if receiver, err := s.userRepo.FindByID(f.ReceiverID); err == nil {
		resp.ReceiverUsername = receiver.Username
	}
	return resp
}

func (s *friendshipService) assembleList(friendships []*domain.Friendship) []*domain.FriendshipResponse {
	responses := make([]*domain.FriendshipResponse, len(friendships))
	for i, f := range friendships {
		responses[i] = s.assemble(f)
	}
	return responses
}

func (s *friendshipService) notifyRequest(f *domain.Friendship) {
	requester, err := s.userRepo.FindByID(f.RequesterID)
	if err != nil {
		return
	}
	s.notificationSvc.Notify(f.ReceiverID, f.RequesterID, domain.NotificationFriendRequest,
		fmt.Sprintf("%s sent you a friend request", requester.Username),
		f.ID, "friendship")
}
