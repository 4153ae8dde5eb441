package service

import (
	"fmt"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
)

// ShareService manages explicit access grants. The operations are generic
// over the protected resource, so notes and repositories share one
// implementation.
type ShareService interface {
	Share(actorID uint64, resource domain.Protected, username, permission string) (*domain.ShareResponse, error)
	UpdatePermission(actorID uint64, resource domain.Protected, username, permission string) error
	Unshare(actorID uint64, resource domain.Protected, username string) error
	List(actorID uint64, resource domain.Protected) ([]*domain.ShareResponse, error)
}

type shareService struct {
	shareRepo       repository.ShareRepository
	userRepo        repository.UserRepository
	resolver        AccessResolver
	notificationSvc NotificationService
}

// NewShareService creates a new ShareService
func NewShareService(shareRepo repository.ShareRepository, userRepo repository.UserRepository, resolver AccessResolver, notificationSvc NotificationService) ShareService {
	return &shareService{
		shareRepo:       shareRepo,
		userRepo:        userRepo,
		resolver:        resolver,
		notificationSvc: notificationSvc,
	}
}

// Share grants a user access to the resource. The actor needs write access
// resolved the usual way, so a write grantee may share further; sharing
// with the owner is rejected.
func (s *shareService) Share(actorID uint64, resource domain.Protected, username, permission string) (*domain.ShareResponse, error) {
	if err := s.resolver.RequireWrite(resource, actorID); err != nil {
		return nil, err
	}
	if permission != domain.PermissionRead && permission != domain.PermissionWrite {
		return nil, common.ErrInvalidInput
	}

	target, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID == resource.OwnerID() {
		return nil, common.ErrSelfReference
	}

	if err := s.shareRepo.Create(resource.Kind(), resource.ResourceID(), target.ID, permission); err != nil {
		if repository.IsDuplicate(err) {
			return nil, common.ErrAlreadyShared
		}
		return nil, err
	}

	s.notifyShared(resource, actorID, target.ID)

	return &domain.ShareResponse{
		Username:   target.Username,
		UserID:     target.ID,
		Permission: permission,
	}, nil
}

// UpdatePermission changes an existing grant's permission level
func (s *shareService) UpdatePermission(actorID uint64, resource domain.Protected, username, permission string) error {
	if err := s.resolver.RequireWrite(resource, actorID); err != nil {
		return err
	}
	if permission != domain.PermissionRead && permission != domain.PermissionWrite {
		return common.ErrInvalidInput
	}

	target, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return err
	}
	return s.shareRepo.UpdatePermission(resource.Kind(), resource.ResourceID(), target.ID, permission)
}

// Unshare revokes a user's grant
func (s *shareService) Unshare(actorID uint64, resource domain.Protected, username string) error {
	if err := s.resolver.RequireWrite(resource, actorID); err != nil {
		return err
	}

	target, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return err
	}
	return s.shareRepo.Delete(resource.Kind(), resource.ResourceID(), target.ID)
}

// List returns all grants on the resource. Only the owner may list them.
func (s *shareService) List(actorID uint64, resource domain.Protected) ([]*domain.ShareResponse, error) {
	if resource.OwnerID() != actorID {
		return nil, common.ErrNotAuthorized
	}

	grants, err := s.shareRepo.ListByResource(resource.Kind(), resource.ResourceID())
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.ShareResponse, 0, len(grants))
	for _, grant := range grants {
		user, err := s.userRepo.FindByID(grant.UserID)
		if err != nil {
			continue
		}
		responses = append(responses, &domain.ShareResponse{
			Username:   user.Username,
			UserID:     user.ID,
			Permission: grant.Permission,
		})
	}
	return responses, nil
}

func (s *shareService) notifyShared(resource domain.Protected, actorID, targetID uint64) {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return
	}
	notificationType := domain.NotificationNoteShared
	noun := "a note"
	if resource.Kind() == domain.KindRepository {
		notificationType = domain.NotificationRepoShared
		noun = "a repository"
	}
	s.notificationSvc.Notify(targetID, actorID, notificationType,
		fmt.Sprintf("%s shared %s with you", actor.Username, noun),
		resource.ResourceID(), string(resource.Kind()))
}
