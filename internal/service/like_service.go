package service

import (
	"fmt"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
)

// LikeService like business logic for notes and repositories
type LikeService interface {
	Like(userID, targetID uint64, kind domain.ResourceKind) (*domain.LikeResponse, error)
	Unlike(userID, targetID uint64, kind domain.ResourceKind) (*domain.LikeResponse, error)
	Toggle(userID, targetID uint64, kind domain.ResourceKind) (*domain.LikeResponse, error)
}

type likeService struct {
	likeRepo        repository.LikeRepository
	noteRepo        repository.NoteRepository
	repoRepo        repository.RepoRepository
	userRepo        repository.UserRepository
	resolver        AccessResolver
	notificationSvc NotificationService
}

// NewLikeService creates a new LikeService
func NewLikeService(
	likeRepo repository.LikeRepository,
	noteRepo repository.NoteRepository,
	repoRepo repository.RepoRepository,
	userRepo repository.UserRepository,
	resolver AccessResolver,
	notificationSvc NotificationService,
) LikeService {
	return &likeService{
		likeRepo:        likeRepo,
		noteRepo:        noteRepo,
		repoRepo:        repoRepo,
		userRepo:        userRepo,
		resolver:        resolver,
		notificationSvc: notificationSvc,
	}
}

// Like records a like on a readable target. Liking twice is an error.
func (s *likeService) Like(userID, targetID uint64, kind domain.ResourceKind) (*domain.LikeResponse, error) {
	target, err := s.readable(userID, targetID, kind)
	if err != nil {
		return nil, err
	}

	if err := s.likeRepo.Create(userID, targetID, kind); err != nil {
		if repository.IsDuplicate(err) {
			return nil, common.ErrAlreadyLiked
		}
		return nil, err
	}

	s.notifyOwner(userID, target)
	return s.status(userID, targetID, kind, true)
}

// Unlike removes a like. Removing a like that does not exist is an error.
func (s *likeService) Unlike(userID, targetID uint64, kind domain.ResourceKind) (*domain.LikeResponse, error) {
	if _, err := s.find(targetID, kind); err != nil {
		return nil, err
	}
	if err := s.likeRepo.Delete(userID, targetID, kind); err != nil {
		return nil, err
	}
	return s.status(userID, targetID, kind, false)
}

// Toggle likes the target if not liked, removes the like otherwise
func (s *likeService) Toggle(userID, targetID uint64, kind domain.ResourceKind) (*domain.LikeResponse, error) {
	target, err := s.readable(userID, targetID, kind)
	if err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.Exists(userID, targetID, kind)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.likeRepo.Delete(userID, targetID, kind); err != nil {
			return nil, err
		}
		return s.status(userID, targetID, kind, false)
	}

	if err := s.likeRepo.Create(userID, targetID, kind); err != nil {
		// A concurrent like already created the edge
		if repository.IsDuplicate(err) {
			return s.status(userID, targetID, kind, true)
		}
		return nil, err
	}
	s.notifyOwner(userID, target)
	return s.status(userID, targetID, kind, true)
}

// find loads the like target as its access-controlled form
func (s *likeService) find(targetID uint64, kind domain.ResourceKind) (domain.Protected, error) {
	switch kind {
	case domain.KindNote:
		return s.noteRepo.FindByID(targetID)
	case domain.KindRepository:
		return s.repoRepo.FindByID(targetID)
	default:
		return nil, common.ErrInvalidInput
	}
}

func (s *likeService) readable(userID, targetID uint64, kind domain.ResourceKind) (domain.Protected, error) {
	target, err := s.find(targetID, kind)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.RequireRead(target, userID); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *likeService) status(userID, targetID uint64, kind domain.ResourceKind, liked bool) (*domain.LikeResponse, error) {
	count, err := s.likeRepo.Count(targetID, kind)
	if err != nil {
		return nil, err
	}
	return &domain.LikeResponse{
		LikeableID:   targetID,
		LikeableKind: kind,
		Liked:        liked,
		LikeCount:    count,
	}, nil
}

func (s *likeService) notifyOwner(likerID uint64, target domain.Protected) {
	liker, err := s.userRepo.FindByID(likerID)
	if err != nil {
		return
	}
	noun := "note"
	if target.Kind() == domain.KindRepository {
		noun = "repository"
	}
	s.notificationSvc.Notify(target.OwnerID(), likerID, domain.NotificationNewLike,
		fmt.Sprintf("%s liked your %s", liker.Username, noun),
		target.ResourceID(), string(target.Kind()))
}
