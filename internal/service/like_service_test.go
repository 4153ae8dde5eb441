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

func newLikeFixture(t *testing.T) (LikeService, *gorm.DB, *domain.User, *domain.User) {
	db := newTestDB(t)
	likeRepo := repository.NewLikeRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	repoRepo := repository.NewRepoRepository(db)
	userRepo := repository.NewUserRepository(db)
	resolver := NewAccessResolver(repository.NewShareRepository(db))
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db))
	svc := NewLikeService(likeRepo, noteRepo, repoRepo, userRepo, resolver, notificationSvc)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	return svc, db, alice, bob
}

func TestLikeService_LikeStrict(t *testing.T) {
	svc, db, alice, bob := newLikeFixture(t)
	note := createNote(t, db, alice.ID, "post", domain.VisibilityPublic)

	result, err := svc.Like(bob.ID, note.ID, domain.KindNote)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.EqualValues(t, 1, result.LikeCount)

	// Liking twice is an error
	_, err = svc.Like(bob.ID, note.ID, domain.KindNote)
	assert.ErrorIs(t, err, common.ErrAlreadyLiked)

	// The note owner was notified
	var count int64
	db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", alice.ID, domain.NotificationNewLike).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestLikeService_LikeNeedsReadableTarget(t *testing.T) {
	svc, db, alice, bob := newLikeFixture(t)
	private := createNote(t, db, alice.ID, "secret", domain.VisibilityPrivate)

	_, err := svc.Like(bob.ID, private.ID, domain.KindNote)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	_, err = svc.Like(bob.ID, 9999, domain.KindNote)
	assert.ErrorIs(t, err, common.ErrNoteNotFound)

	_, err = svc.Like(bob.ID, private.ID, domain.ResourceKind("bogus"))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestLikeService_UnlikeStrict(t *testing.T) {
	svc, db, alice, bob := newLikeFixture(t)
	note := createNote(t, db, alice.ID, "post", domain.VisibilityPublic)

	_, err := svc.Unlike(bob.ID, note.ID, domain.KindNote)
	assert.ErrorIs(t, err, common.ErrLikeNotFound)

	_, err = svc.Like(bob.ID, note.ID, domain.KindNote)
	require.NoError(t, err)

	result, err := svc.Unlike(bob.ID, note.ID, domain.KindNote)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.EqualValues(t, 0, result.LikeCount)
}

func TestLikeService_Toggle(t *testing.T) {
	svc, db, alice, bob := newLikeFixture(t)
	repo := createRepository(t, db, alice.ID, "research", domain.VisibilityPublic)

	result, err := svc.Toggle(bob.ID, repo.ID, domain.KindRepository)
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.EqualValues(t, 1, result.LikeCount)

	result, err = svc.Toggle(bob.ID, repo.ID, domain.KindRepository)
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.EqualValues(t, 0, result.LikeCount)
}

func TestLikeService_KindsAreIndependent(t *testing.T) {
	svc, db, alice, bob := newLikeFixture(t)
	note := createNote(t, db, alice.ID, "post", domain.VisibilityPublic)
	repo := createRepository(t, db, alice.ID, "research", domain.VisibilityPublic)

	_, err := svc.Like(bob.ID, note.ID, domain.KindNote)
	require.NoError(t, err)

	// A like on a note never collides with a like on a repository,
	// even when the IDs happen to match
	result, err := svc.Like(bob.ID, repo.ID, domain.KindRepository)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.LikeCount)
}
