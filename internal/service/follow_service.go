package service

import (
	"fmt"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
)

// FollowService repository follow business logic
type FollowService interface {
	Follow(userID, repositoryID uint64) (*domain.FollowResponse, error)
	Unfollow(userID, repositoryID uint64) (*domain.FollowResponse, error)
	Toggle(userID, repositoryID uint64) (*domain.FollowResponse, error)
	ListFollowed(userID uint64, page, limit int) ([]*domain.RepositoryResponse, int64, error)
}

type followService struct {
	followRepo      repository.FollowRepository
	repoRepo        repository.RepoRepository
	userRepo        repository.UserRepository
	repoSvc         RepositoryService
	notificationSvc NotificationService
}

// NewFollowService creates a new FollowService
func NewFollowService(
	followRepo repository.FollowRepository,
	repoRepo repository.RepoRepository,
	userRepo repository.UserRepository,
	repoSvc RepositoryService,
	notificationSvc NotificationService,
) FollowService {
	return &followService{
		followRepo:      followRepo,
		repoRepo:        repoRepo,
		userRepo:        userRepo,
		repoSvc:         repoSvc,
		notificationSvc: notificationSvc,
	}
}

// Follow subscribes the user to a repository they can read. Following an
// already-followed repository is an error.
func (s *followService) Follow(userID, repositoryID uint64) (*domain.FollowResponse, error) {
	repo, err := s.followable(userID, repositoryID)
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Create(userID, repositoryID); err != nil {
		if repository.IsDuplicate(err) {
			return nil, common.ErrAlreadyFollowing
		}
		return nil, err
	}

	s.notifyOwner(userID, repo)
	return s.status(userID, repositoryID, true)
}

// Unfollow removes the user's subscription
func (s *followService) Unfollow(userID, repositoryID uint64) (*domain.FollowResponse, error) {
	if _, err := s.repoRepo.FindByID(repositoryID); err != nil {
		return nil, err
	}
	if err := s.followRepo.Delete(userID, repositoryID); err != nil {
		return nil, err
	}
	return s.status(userID, repositoryID, false)
}

// Toggle follows the repository if not followed, unfollows it otherwise
func (s *followService) Toggle(userID, repositoryID uint64) (*domain.FollowResponse, error) {
	repo, err := s.followable(userID, repositoryID)
	if err != nil {
		return nil, err
	}

	following, err := s.followRepo.Exists(userID, repositoryID)
	if err != nil {
		return nil, err
	}

	if following {
		if err := s.followRepo.Delete(userID, repositoryID); err != nil {
			return nil, err
		}
		return s.status(userID, repositoryID, false)
	}

	if err := s.followRepo.Create(userID, repositoryID); err != nil {
		// A concurrent follow already created the edge
		if repository.IsDuplicate(err) {
			return s.status(userID, repositoryID, true)
		}
		return nil, err
	}
	s.notifyOwner(userID, repo)
	return s.status(userID, repositoryID, true)
}

// ListFollowed returns the repositories the user follows
func (s *followService) ListFollowed(userID uint64, page, limit int) ([]*domain.RepositoryResponse, int64, error) {
	ids, err := s.followRepo.ListRepositoryIDs(userID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*domain.RepositoryResponse, 0, len(ids))
	for _, id := range ids {
		resp, err := s.repoSvc.Get(userID, id)
		if err != nil {
			// Repository deleted or access revoked since the follow
			continue
		}
		responses = append(responses, resp)
	}

	total := int64(len(responses))
	page, limit = clampPage(page, limit)
	start := (page - 1) * limit
	if start >= len(responses) {
		return []*domain.RepositoryResponse{}, total, nil
	}
	end := start + limit
	if end > len(responses) {
		end = len(responses)
	}
	return responses[start:end], total, nil
}

// followable gates the follow. Private repositories are followable only by
// their creator; a read grant opens viewing but not following.
func (s *followService) followable(userID, repositoryID uint64) (*domain.Repository, error) {
	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return nil, err
	}
	if !repo.IsPublic() && repo.CreatorID != userID {
		return nil, common.ErrNotAuthorized
	}
	return repo, nil
}

func (s *followService) status(userID, repositoryID uint64, following bool) (*domain.FollowResponse, error) {
	count, err := s.followRepo.CountByRepository(repositoryID)
	if err != nil {
		return nil, err
	}
	return &domain.FollowResponse{
		RepositoryID:  repositoryID,
		Following:     following,
		FollowerCount: count,
	}, nil
}

func (s *followService) notifyOwner(followerID uint64, repo *domain.Repository) {
	follower, err := s.userRepo.FindByID(followerID)
	if err != nil {
		return
	}
	s.notificationSvc.Notify(repo.CreatorID, followerID, domain.NotificationNewFollower,
		fmt.Sprintf("%s started following %s", follower.Username, repo.Name),
		repo.ID, string(domain.KindRepository))
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
