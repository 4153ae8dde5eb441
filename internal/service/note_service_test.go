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

func newNoteFixture(t *testing.T) (NoteService, *gorm.DB, *domain.User, *domain.User) {
	db := newTestDB(t)
	noteRepo := repository.NewNoteRepository(db)
	repoRepo := repository.NewRepoRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	userRepo := repository.NewUserRepository(db)
	shareRepo := repository.NewShareRepository(db)
	resolver := NewAccessResolver(shareRepo)
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db))
	shareSvc := NewShareService(shareRepo, userRepo, resolver, notificationSvc)
	searchSvc := NewSearchService(nil, "", noteRepo, resolver)
	svc := NewNoteService(noteRepo, repoRepo, likeRepo, userRepo, resolver, shareSvc, searchSvc, newTestCache())

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	return svc, db, alice, bob
}

func TestNoteService_CreateWithRepository(t *testing.T) {
	svc, db, alice, bob := newNoteFixture(t)
	repo := createRepository(t, db, alice.ID, "research", domain.VisibilityPrivate)

	resp, err := svc.Create(alice.ID, &domain.NoteRequest{
		Title:        "findings",
		Content:      "raw data",
		RepositoryID: &repo.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPrivate, resp.Visibility)
	assert.Equal(t, []uint64{repo.ID}, resp.RepositoryIDs)

	// Notes can only be created into the creator's own repositories
	_, err = svc.Create(bob.ID, &domain.NoteRequest{Title: "sneaky", RepositoryID: &repo.ID})
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	missing := uint64(9999)
	_, err = svc.Create(alice.ID, &domain.NoteRequest{Title: "lost", RepositoryID: &missing})
	assert.ErrorIs(t, err, common.ErrRepositoryNotFound)
}

func TestNoteService_GetAccess(t *testing.T) {
	svc, db, alice, bob := newNoteFixture(t)
	private := createNote(t, db, alice.ID, "secret", domain.VisibilityPrivate)
	public := createNote(t, db, alice.ID, "open", domain.VisibilityPublic)

	_, err := svc.Get(alice.ID, private.ID)
	require.NoError(t, err)

	_, err = svc.Get(bob.ID, private.ID)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	// Anonymous viewers read public notes
	resp, err := svc.Get(0, public.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.CreatorUsername)

	// A read grant opens the private note
	_, err = svc.Share(alice.ID, private.ID, &domain.ShareRequest{Username: "bob", Permission: domain.PermissionRead})
	require.NoError(t, err)
	_, err = svc.Get(bob.ID, private.ID)
	require.NoError(t, err)
}

func TestNoteService_UpdatePermissions(t *testing.T) {
	svc, db, alice, bob := newNoteFixture(t)
	note := createNote(t, db, alice.ID, "draft", domain.VisibilityPrivate)

	_, err := svc.Share(alice.ID, note.ID, &domain.ShareRequest{Username: "bob", Permission: domain.PermissionWrite})
	require.NoError(t, err)

	// A write grant allows content edits
	resp, err := svc.Update(bob.ID, note.ID, &domain.NoteRequest{Title: "draft v2", Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "draft v2", resp.Title)

	// Changing visibility is reserved for the owner
	_, err = svc.Update(bob.ID, note.ID, &domain.NoteRequest{Title: "draft v2", Public: true})
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	resp, err = svc.Update(alice.ID, note.ID, &domain.NoteRequest{Title: "draft v2", Public: true})
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPublic, resp.Visibility)
}

func TestNoteService_DeleteOwnerOnly(t *testing.T) {
	svc, db, alice, bob := newNoteFixture(t)
	note := createNote(t, db, alice.ID, "draft", domain.VisibilityPrivate)

	_, err := svc.Share(alice.ID, note.ID, &domain.ShareRequest{Username: "bob", Permission: domain.PermissionWrite})
	require.NoError(t, err)

	// Even a write grant does not allow deletion
	assert.ErrorIs(t, svc.Delete(bob.ID, note.ID), common.ErrNotAuthorized)

	require.NoError(t, svc.Delete(alice.ID, note.ID))
	_, err = svc.Get(alice.ID, note.ID)
	assert.ErrorIs(t, err, common.ErrNoteNotFound)
}

func TestNoteService_Lists(t *testing.T) {
	svc, db, alice, bob := newNoteFixture(t)
	createNote(t, db, alice.ID, "mine one", domain.VisibilityPrivate)
	createNote(t, db, alice.ID, "mine two", domain.VisibilityPublic)
	shared := createNote(t, db, bob.ID, "from bob", domain.VisibilityPrivate)

	_, err := svc.Share(bob.ID, shared.ID, &domain.ShareRequest{Username: "alice", Permission: domain.PermissionRead})
	require.NoError(t, err)

	mine, total, err := svc.ListMine(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, mine, 2)

	sharedWithMe, total, err := svc.ListSharedWithMe(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, sharedWithMe, 1)
	assert.Equal(t, "from bob", sharedWithMe[0].Title)

	public, total, err := svc.ListPublic(0, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, public, 1)
	assert.Equal(t, "mine two", public[0].Title)
}

func TestNoteService_SearchRespectsAccess(t *testing.T) {
	svc, db, alice, bob := newNoteFixture(t)
	createNote(t, db, alice.ID, "quantum results", domain.VisibilityPublic)
	createNote(t, db, alice.ID, "quantum drafts", domain.VisibilityPrivate)

	results, total, err := svc.Search(bob.ID, "quantum", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "quantum results", results[0].Title)

	results, total, err = svc.Search(alice.ID, "quantum", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, results, 2)
}

func TestNoteService_RepositoryLinks(t *testing.T) {
	svc, db, alice, bob := newNoteFixture(t)
	note := createNote(t, db, alice.ID, "draft", domain.VisibilityPrivate)
	mine := createRepository(t, db, alice.ID, "mine", domain.VisibilityPrivate)
	theirs := createRepository(t, db, bob.ID, "theirs", domain.VisibilityPrivate)

	// Linking requires owning the repository
	assert.ErrorIs(t, svc.AddToRepository(alice.ID, note.ID, theirs.ID), common.ErrNotAuthorized)

	require.NoError(t, svc.AddToRepository(alice.ID, note.ID, mine.ID))

	resp, err := svc.Get(alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{mine.ID}, resp.RepositoryIDs)

	require.NoError(t, svc.RemoveFromRepository(alice.ID, note.ID, mine.ID))
	resp, err = svc.Get(alice.ID, note.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.RepositoryIDs)
}

func TestNoteService_LikedByMe(t *testing.T) {
	svc, db, alice, bob := newNoteFixture(t)
	note := createNote(t, db, alice.ID, "post", domain.VisibilityPublic)

	likeRepo := repository.NewLikeRepository(db)
	require.NoError(t, likeRepo.Create(bob.ID, note.ID, domain.KindNote))

	resp, err := svc.Get(bob.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, resp.LikedByMe)
	assert.EqualValues(t, 1, resp.LikeCount)

	// Anonymous viewers see the count but no personal flag
	resp, err = svc.Get(0, note.ID)
	require.NoError(t, err)
	assert.False(t, resp.LikedByMe)
	assert.EqualValues(t, 1, resp.LikeCount)
}
