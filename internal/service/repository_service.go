package service

import (
	"context"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
	"github.com/notesphere/backend/pkg/cache"
)

// RepositoryService repository (note collection) business logic
type RepositoryService interface {
	Create(userID uint64, req *domain.RepositoryRequest) (*domain.RepositoryResponse, error)
	Get(viewerID, repositoryID uint64) (*domain.RepositoryResponse, error)
	Update(userID, repositoryID uint64, req *domain.RepositoryRequest) (*domain.RepositoryResponse, error)
	Delete(userID, repositoryID uint64) error
	ListMine(userID uint64, page, limit int) ([]*domain.RepositoryResponse, int64, error)
	ListPublic(viewerID uint64, page, limit int) ([]*domain.RepositoryResponse, int64, error)
	ListSharedWithMe(userID uint64, page, limit int) ([]*domain.RepositoryResponse, int64, error)
	ListNotes(viewerID, repositoryID uint64, page, limit int) ([]*domain.NoteResponse, int64, error)
	Share(userID, repositoryID uint64, req *domain.ShareRequest) (*domain.ShareResponse, error)
	UpdateSharePermission(userID, repositoryID uint64, req *domain.ShareRequest) error
	Unshare(userID, repositoryID uint64, username string) error
	ListShares(userID, repositoryID uint64) ([]*domain.ShareResponse, error)
}

type repositoryService struct {
	repoRepo   repository.RepoRepository
	noteRepo   repository.NoteRepository
	followRepo repository.FollowRepository
	likeRepo   repository.LikeRepository
	userRepo   repository.UserRepository
	resolver   AccessResolver
	shareSvc   ShareService
	noteSvc    NoteService
	cacheSvc   cache.Service
}

// NewRepositoryService creates a new RepositoryService
func NewRepositoryService(
	repoRepo repository.RepoRepository,
	noteRepo repository.NoteRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	resolver AccessResolver,
	shareSvc ShareService,
	noteSvc NoteService,
	cacheSvc cache.Service,
) RepositoryService {
	return &repositoryService{
		repoRepo:   repoRepo,
		noteRepo:   noteRepo,
		followRepo: followRepo,
		likeRepo:   likeRepo,
		userRepo:   userRepo,
		resolver:   resolver,
		shareSvc:   shareSvc,
		noteSvc:    noteSvc,
		cacheSvc:   cacheSvc,
	}
}

// Create stores a new repository
func (s *repositoryService) Create(userID uint64, req *domain.RepositoryRequest) (*domain.RepositoryResponse, error) {
	repo := &domain.Repository{
		CreatorID:   userID,
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibilityFrom(req.Public),
	}
	if err := s.repoRepo.Create(repo); err != nil {
		return nil, err
	}
	return s.assemble(repo, userID)
}

// Get returns a repository after resolving the viewer's access
func (s *repositoryService) Get(viewerID, repositoryID uint64) (*domain.RepositoryResponse, error) {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.RequireRead(repo, viewerID); err != nil {
		return nil, err
	}
	return s.assemble(repo, viewerID)
}

// Update modifies a repository. Visibility changes are owner-only.
func (s *repositoryService) Update(userID, repositoryID uint64, req *domain.RepositoryRequest) (*domain.RepositoryResponse, error) {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.RequireWrite(repo, userID); err != nil {
		return nil, err
	}

	newVisibility := visibilityFrom(req.Public)
	if newVisibility != repo.Visibility && repo.CreatorID != userID {
		return nil, common.ErrNotAuthorized
	}

	repo.Name = req.Name
	repo.Description = req.Description
	repo.Visibility = newVisibility

	if err := s.repoRepo.Update(repo); err != nil {
		return nil, err
	}
	s.invalidate(repositoryID)
	return s.assemble(repo, userID)
}

// Delete removes a repository. Owner only. Notes in it survive; only the
// collection and its relations are removed.
func (s *repositoryService) Delete(userID, repositoryID uint64) error {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return err
	}
	if repo.CreatorID != userID {
		return common.ErrNotAuthorized
	}
	if err := s.repoRepo.Delete(repositoryID); err != nil {
		return err
	}
	s.invalidate(repositoryID)
	return nil
}

// ListMine returns the user's own repositories
func (s *repositoryService) ListMine(userID uint64, page, limit int) ([]*domain.RepositoryResponse, int64, error) {
	repos, total, err := s.repoRepo.FindByCreator(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(repos, userID, total)
}

// ListPublic returns publicly visible repositories
func (s *repositoryService) ListPublic(viewerID uint64, page, limit int) ([]*domain.RepositoryResponse, int64, error) {
	repos, total, err := s.repoRepo.FindPublic(page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(repos, viewerID, total)
}

// ListSharedWithMe returns repositories shared with the user
func (s *repositoryService) ListSharedWithMe(userID uint64, page, limit int) ([]*domain.RepositoryResponse, int64, error) {
	repos, total, err := s.repoRepo.FindSharedWith(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(repos, userID, total)
}

// ListNotes returns the notes collected in a repository the viewer may read
func (s *repositoryService) ListNotes(viewerID, repositoryID uint64, page, limit int) ([]*domain.NoteResponse, int64, error) {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.resolver.RequireRead(repo, viewerID); err != nil {
		return nil, 0, err
	}

	notes, total, err := s.noteRepo.FindByRepository(repositoryID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	// Repository access does not bypass per-note visibility
	responses := make([]*domain.NoteResponse, 0, len(notes))
	hidden := int64(0)
	for _, note := range notes {
		ok, err := s.resolver.CanRead(note, viewerID)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			hidden++
			continue
		}
		resp, err := s.noteSvc.Get(viewerID, note.ID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, resp)
	}
	if total >= hidden {
		total -= hidden
	}
	return responses, total, nil
}

// Share grants another user access to the repository
func (s *repositoryService) Share(userID, repositoryID uint64, req *domain.ShareRequest) (*domain.ShareResponse, error) {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return nil, err
	}
	return s.shareSvc.Share(userID, repo, req.Username, req.Permission)
}

// UpdateSharePermission changes an existing grant on the repository
func (s *repositoryService) UpdateSharePermission(userID, repositoryID uint64, req *domain.ShareRequest) error {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return err
	}
	return s.shareSvc.UpdatePermission(userID, repo, req.Username, req.Permission)
}

// Unshare revokes a grant on the repository
func (s *repositoryService) Unshare(userID, repositoryID uint64, username string) error {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return err
	}
	return s.shareSvc.Unshare(userID, repo, username)
}

// ListShares lists the grants on the repository
func (s *repositoryService) ListShares(userID, repositoryID uint64) ([]*domain.ShareResponse, error) {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return nil, err
	}
	return s.shareSvc.List(userID, repo)
}

func (s *repositoryService) assemble(repo *domain.Repository, viewerID uint64) (*domain.RepositoryResponse, error) {
	resp := repo.ToResponse()

	if creator, err := s.userRepo.FindByID(repo.CreatorID); err == nil {
		resp.CreatorUsername = creator.Username
	}

	noteCount, err := s.noteRepo.CountByRepository(repo.ID)
	if err != nil {
		return nil, err
	}
	resp.NoteCount = noteCount

	followerCount, err := s.followRepo.CountByRepository(repo.ID)
	if err != nil {
		return nil, err
	}
	resp.FollowerCount = followerCount

	likeCount, err := s.likeRepo.Count(repo.ID, domain.KindRepository)
	if err != nil {
		return nil, err
	}
	resp.LikeCount = likeCount

	if viewerID != 0 {
		following, err := s.followRepo.Exists(viewerID, repo.ID)
		if err != nil {
			return nil, err
		}
		resp.FollowedByMe = following
	}

	return resp, nil
}

func (s *repositoryService) assembleList(repos []*domain.Repository, viewerID uint64, total int64) ([]*domain.RepositoryResponse, int64, error) {
	responses := make([]*domain.RepositoryResponse, 0, len(repos))
	for _, repo := range repos {
		resp, err := s.assemble(repo, viewerID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

func (s *repositoryService) invalidate(repositoryID uint64) {
	if s.cacheSvc == nil {
		return
	}
	_ = s.cacheSvc.InvalidateRepository(context.Background(), repositoryID)
}
