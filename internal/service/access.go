package service

import (
	"errors"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
)

// AccessResolver decides whether a user may read or write a protected
// resource. Resolution is tiered: the owner has full access, public
// visibility grants read to everyone, and an explicit share grant gives
// whatever permission it carries.
type AccessResolver interface {
	CanRead(resource domain.Protected, userID uint64) (bool, error)
	CanWrite(resource domain.Protected, userID uint64) (bool, error)
	RequireRead(resource domain.Protected, userID uint64) error
	RequireWrite(resource domain.Protected, userID uint64) error
}

type accessResolver struct {
	shareRepo repository.ShareRepository
}

// NewAccessResolver creates a new AccessResolver
func NewAccessResolver(shareRepo repository.ShareRepository) AccessResolver {
	return &accessResolver{shareRepo: shareRepo}
}

// CanRead reports whether the user may view the resource
func (r *accessResolver) CanRead(resource domain.Protected, userID uint64) (bool, error) {
	if resource.OwnerID() == userID {
		return true, nil
	}
	if resource.IsPublic() {
		return true, nil
	}
	_, err := r.grantFor(resource, userID)
	if err != nil {
		if errors.Is(err, common.ErrShareNotFound) {
			return false, nil
		}
		return false, err
	}
	// Any grant level implies read
	return true, nil
}

// CanWrite reports whether the user may modify the resource. Public
// visibility never grants write; only ownership or a write grant does.
func (r *accessResolver) CanWrite(resource domain.Protected, userID uint64) (bool, error) {
	if resource.OwnerID() == userID {
		return true, nil
	}
	grant, err := r.grantFor(resource, userID)
	if err != nil {
		if errors.Is(err, common.ErrShareNotFound) {
			return false, nil
		}
		return false, err
	}
	return grant.Permission == domain.PermissionWrite, nil
}

// RequireRead returns ErrNotAuthorized unless the user may view the resource
func (r *accessResolver) RequireRead(resource domain.Protected, userID uint64) error {
	ok, err := r.CanRead(resource, userID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotAuthorized
	}
	return nil
}

// RequireWrite returns an error unless the user may modify the resource.
// A user who can read but not write gets ErrInsufficientPermission so the
// caller can distinguish "no access at all" from "read-only access".
func (r *accessResolver) RequireWrite(resource domain.Protected, userID uint64) error {
	ok, err := r.CanWrite(resource, userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	canRead, err := r.CanRead(resource, userID)
	if err != nil {
		return err
	}
	if canRead {
		return common.ErrInsufficientPermission
	}
	return common.ErrNotAuthorized
}

func (r *accessResolver) grantFor(resource domain.Protected, userID uint64) (*domain.Grant, error) {
	if userID == 0 {
		return nil, common.ErrShareNotFound
	}
	return r.shareRepo.Find(resource.Kind(), resource.ResourceID(), userID)
}
