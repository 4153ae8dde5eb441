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

func newRepositoryFixture(t *testing.T) (RepositoryService, *gorm.DB, *domain.User, *domain.User) {
	db := newTestDB(t)
	repoRepo := repository.NewRepoRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	userRepo := repository.NewUserRepository(db)
	shareRepo := repository.NewShareRepository(db)
	resolver := NewAccessResolver(shareRepo)
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db))
	shareSvc := NewShareService(shareRepo, userRepo, resolver, notificationSvc)
	searchSvc := NewSearchService(nil, "", noteRepo, resolver)
	cacheSvc := newTestCache()
	noteSvc := NewNoteService(noteRepo, repoRepo, likeRepo, userRepo, resolver, shareSvc, searchSvc, cacheSvc)
	svc := NewRepositoryService(repoRepo, noteRepo, followRepo, likeRepo, userRepo, resolver, shareSvc, noteSvc, cacheSvc)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	return svc, db, alice, bob
}

func TestRepositoryService_CreateAndGet(t *testing.T) {
	svc, _, alice, bob := newRepositoryFixture(t)

	resp, err := svc.Create(alice.ID, &domain.RepositoryRequest{
		Name:        "research",
		Description: "lab notes",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPrivate, resp.Visibility)
	assert.Equal(t, "alice", resp.CreatorUsername)

	_, err = svc.Get(bob.ID, resp.ID)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	_, err = svc.Get(alice.ID, resp.ID)
	require.NoError(t, err)
}

func TestRepositoryService_UpdateVisibilityOwnerOnly(t *testing.T) {
	svc, db, alice, bob := newRepositoryFixture(t)
	repo := createRepository(t, db, alice.ID, "research", domain.VisibilityPrivate)

	_, err := svc.Share(alice.ID, repo.ID, &domain.ShareRequest{Username: "bob", Permission: domain.PermissionWrite})
	require.NoError(t, err)

	// A write grant allows renaming
	resp, err := svc.Update(bob.ID, repo.ID, &domain.RepositoryRequest{Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", resp.Name)

	// But not publishing
	_, err = svc.Update(bob.ID, repo.ID, &domain.RepositoryRequest{Name: "renamed", Public: true})
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	resp, err = svc.Update(alice.ID, repo.ID, &domain.RepositoryRequest{Name: "renamed", Public: true})
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPublic, resp.Visibility)
}

func TestRepositoryService_ListNotesFiltersPerNoteAccess(t *testing.T) {
	svc, db, alice, bob := newRepositoryFixture(t)
	repo := createRepository(t, db, alice.ID, "mixed", domain.VisibilityPublic)
	public := createNote(t, db, alice.ID, "open", domain.VisibilityPublic)
	private := createNote(t, db, alice.ID, "secret", domain.VisibilityPrivate)

	noteRepo := repository.NewNoteRepository(db)
	require.NoError(t, noteRepo.AddToRepository(public.ID, repo.ID))
	require.NoError(t, noteRepo.AddToRepository(private.ID, repo.ID))

	// Repository access never overrides per-note visibility
	notes, total, err := svc.ListNotes(bob.ID, repo.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, notes, 1)
	assert.Equal(t, "open", notes[0].Title)

	notes, total, err = svc.ListNotes(alice.ID, repo.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, notes, 2)
}

func TestRepositoryService_DeleteKeepsNotes(t *testing.T) {
	svc, db, alice, bob := newRepositoryFixture(t)
	repo := createRepository(t, db, alice.ID, "doomed", domain.VisibilityPrivate)
	note := createNote(t, db, alice.ID, "survivor", domain.VisibilityPrivate)

	noteRepo := repository.NewNoteRepository(db)
	require.NoError(t, noteRepo.AddToRepository(note.ID, repo.ID))

	assert.ErrorIs(t, svc.Delete(bob.ID, repo.ID), common.ErrNotAuthorized)
	require.NoError(t, svc.Delete(alice.ID, repo.ID))

	_, err := svc.Get(alice.ID, repo.ID)
	assert.ErrorIs(t, err, common.ErrRepositoryNotFound)

	// The collected note outlives its collection
	_, err = noteRepo.FindByID(note.ID)
	require.NoError(t, err)
}

func TestRepositoryService_Lists(t *testing.T) {
	svc, db, alice, bob := newRepositoryFixture(t)
	createRepository(t, db, alice.ID, "private one", domain.VisibilityPrivate)
	createRepository(t, db, alice.ID, "public one", domain.VisibilityPublic)
	shared := createRepository(t, db, bob.ID, "from bob", domain.VisibilityPrivate)

	_, err := svc.Share(bob.ID, shared.ID, &domain.ShareRequest{Username: "alice", Permission: domain.PermissionRead})
	require.NoError(t, err)

	mine, total, err := svc.ListMine(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, mine, 2)

	public, total, err := svc.ListPublic(0, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, public, 1)
	assert.Equal(t, "public one", public[0].Name)

	sharedWithMe, total, err := svc.ListSharedWithMe(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, sharedWithMe, 1)
	assert.Equal(t, "from bob", sharedWithMe[0].Name)
}

func TestRepositoryService_Counts(t *testing.T) {
	svc, db, alice, bob := newRepositoryFixture(t)
	repo := createRepository(t, db, alice.ID, "research", domain.VisibilityPublic)
	note := createNote(t, db, alice.ID, "collected", domain.VisibilityPublic)

	noteRepo := repository.NewNoteRepository(db)
	require.NoError(t, noteRepo.AddToRepository(note.ID, repo.ID))
	require.NoError(t, repository.NewFollowRepository(db).Create(bob.ID, repo.ID))
	require.NoError(t, repository.NewLikeRepository(db).Create(bob.ID, repo.ID, domain.KindRepository))

	resp, err := svc.Get(bob.ID, repo.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.NoteCount)
	assert.EqualValues(t, 1, resp.FollowerCount)
	assert.EqualValues(t, 1, resp.LikeCount)
	assert.True(t, resp.FollowedByMe)
}
