package service

import (
	"testing"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFollowFixture(t *testing.T) (FollowService, *gorm.DB, *domain.User, *domain.User) {
	db := newTestDB(t)
	followRepo := repository.NewFollowRepository(db)
	repoRepo := repository.NewRepoRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	userRepo := repository.NewUserRepository(db)
	shareRepo := repository.NewShareRepository(db)
	resolver := NewAccessResolver(shareRepo)
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db))
	shareSvc := NewShareService(shareRepo, userRepo, resolver, notificationSvc)
	searchSvc := NewSearchService(nil, "", noteRepo, resolver)
	cacheSvc := newTestCache()
	noteSvc := NewNoteService(noteRepo, repoRepo, likeRepo, userRepo, resolver, shareSvc, searchSvc, cacheSvc)
	repoSvc := NewRepositoryService(repoRepo, noteRepo, followRepo, likeRepo, userRepo, resolver, shareSvc, noteSvc, cacheSvc)
	svc := NewFollowService(followRepo, repoRepo, userRepo, repoSvc, notificationSvc)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	return svc, db, alice, bob
}

func TestFollowService_FollowStrict(t *testing.T) {
	svc, db, alice, bob := newFollowFixture(t)
	repo := createRepository(t, db, alice.ID, "research", domain.VisibilityPublic)

	result, err := svc.Follow(bob.ID, repo.ID)
	require.NoError(t, err)
	assert.True(t, result.Following)
	assert.EqualValues(t, 1, result.FollowerCount)

	// Following twice is an error
	_, err = svc.Follow(bob.ID, repo.ID)
	assert.ErrorIs(t, err, common.ErrAlreadyFollowing)

	// The owner was notified
	var count int64
	db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", alice.ID, domain.NotificationNewFollower).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestFollowService_PrivateRepoCreatorOnly(t *testing.T) {
	svc, db, alice, bob := newFollowFixture(t)
	private := createRepository(t, db, alice.ID, "secret", domain.VisibilityPrivate)

	_, err := svc.Follow(bob.ID, private.ID)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	// A read grant opens viewing, not following
	shareRepo := repository.NewShareRepository(db)
	require.NoError(t, shareRepo.Create(domain.KindRepository, private.ID, bob.ID, domain.PermissionRead))
	_, err = svc.Follow(bob.ID, private.ID)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)
	_, err = svc.Toggle(bob.ID, private.ID)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	// The creator may follow their own private repository
	result, err := svc.Follow(alice.ID, private.ID)
	require.NoError(t, err)
	assert.True(t, result.Following)

	_, err = svc.Follow(bob.ID, 9999)
	assert.ErrorIs(t, err, common.ErrRepositoryNotFound)
}

func TestFollowService_UnfollowStrict(t *testing.T) {
	svc, db, alice, bob := newFollowFixture(t)
	repo := createRepository(t, db, alice.ID, "research", domain.VisibilityPublic)

	// Unfollowing before following is an error
	_, err := svc.Unfollow(bob.ID, repo.ID)
	assert.ErrorIs(t, err, common.ErrFollowNotFound)

	_, err = svc.Follow(bob.ID, repo.ID)
	require.NoError(t, err)

	result, err := svc.Unfollow(bob.ID, repo.ID)
	require.NoError(t, err)
	assert.False(t, result.Following)
	assert.EqualValues(t, 0, result.FollowerCount)
}

func TestFollowService_Toggle(t *testing.T) {
	svc, db, alice, bob := newFollowFixture(t)
	repo := createRepository(t, db, alice.ID, "research", domain.VisibilityPublic)

	result, err := svc.Toggle(bob.ID, repo.ID)
	require.NoError(t, err)
	assert.True(t, result.Following)

	result, err = svc.Toggle(bob.ID, repo.ID)
	require.NoError(t, err)
	assert.False(t, result.Following)
	assert.EqualValues(t, 0, result.FollowerCount)
}

func TestFollowService_ListFollowed(t *testing.T) {
	svc, db, alice, bob := newFollowFixture(t)
	first := createRepository(t, db, alice.ID, "first", domain.VisibilityPublic)
	second := createRepository(t, db, alice.ID, "second", domain.VisibilityPublic)

	_, err := svc.Follow(bob.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Follow(bob.ID, second.ID)
	require.NoError(t, err)

	repos, total, err := svc.ListFollowed(bob.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, repos, 2)
}
