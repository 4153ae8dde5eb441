package service

import (
	"testing"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShareFixture(t *testing.T) (ShareService, repository.ShareRepository, *domain.User, *domain.User, *domain.Note) {
	db := newTestDB(t)
	shareRepo := repository.NewShareRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db))
	svc := NewShareService(shareRepo, userRepo, NewAccessResolver(shareRepo), notificationSvc)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	note := createNote(t, db, alice.ID, "doc", domain.VisibilityPrivate)
	return svc, shareRepo, alice, bob, note
}

func TestShareService_Share(t *testing.T) {
	svc, shareRepo, alice, bob, note := newShareFixture(t)

	resp, err := svc.Share(alice.ID, note, bob.Username, domain.PermissionRead)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, resp.UserID)
	assert.Equal(t, domain.PermissionRead, resp.Permission)

	grant, err := shareRepo.Find(domain.KindNote, note.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionRead, grant.Permission)
}

func TestShareService_ShareRules(t *testing.T) {
	svc, _, alice, bob, note := newShareFixture(t)

	// No access at all means no sharing
	_, err := svc.Share(bob.ID, note, "alice", domain.PermissionRead)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	// Sharing with the owner is refused
	_, err = svc.Share(alice.ID, note, alice.Username, domain.PermissionRead)
	assert.ErrorIs(t, err, common.ErrSelfReference)

	// Unknown permission levels are refused
	_, err = svc.Share(alice.ID, note, bob.Username, "admin")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// Unknown target user
	_, err = svc.Share(alice.ID, note, "nobody", domain.PermissionRead)
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	// Sharing twice conflicts
	_, err = svc.Share(alice.ID, note, bob.Username, domain.PermissionRead)
	require.NoError(t, err)
	_, err = svc.Share(alice.ID, note, bob.Username, domain.PermissionWrite)
	assert.ErrorIs(t, err, common.ErrAlreadyShared)
}

func TestShareService_WriteGranteeManagesShares(t *testing.T) {
	db := newTestDB(t)
	shareRepo := repository.NewShareRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db))
	svc := NewShareService(shareRepo, userRepo, NewAccessResolver(shareRepo), notificationSvc)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	note := createNote(t, db, alice.ID, "doc", domain.VisibilityPrivate)

	_, err := svc.Share(alice.ID, note, bob.Username, domain.PermissionWrite)
	require.NoError(t, err)

	// A write grantee holds write access and may grant others
	_, err = svc.Share(bob.ID, note, carol.Username, domain.PermissionRead)
	require.NoError(t, err)

	grant, err := shareRepo.Find(domain.KindNote, note.ID, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionRead, grant.Permission)

	// And may change or revoke existing grants
	require.NoError(t, svc.UpdatePermission(bob.ID, note, carol.Username, domain.PermissionWrite))
	require.NoError(t, svc.Unshare(bob.ID, note, carol.Username))

	// A read grantee may not; the error names the missing level
	require.NoError(t, svc.UpdatePermission(alice.ID, note, bob.Username, domain.PermissionRead))
	_, err = svc.Share(bob.ID, note, carol.Username, domain.PermissionRead)
	assert.ErrorIs(t, err, common.ErrInsufficientPermission)
	assert.ErrorIs(t, svc.Unshare(bob.ID, note, bob.Username), common.ErrInsufficientPermission)
}

func TestShareService_UpdateAndUnshare(t *testing.T) {
	svc, shareRepo, alice, bob, note := newShareFixture(t)

	// Updating a grant that does not exist
	err := svc.UpdatePermission(alice.ID, note, bob.Username, domain.PermissionWrite)
	assert.ErrorIs(t, err, common.ErrShareNotFound)

	_, err = svc.Share(alice.ID, note, bob.Username, domain.PermissionRead)
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePermission(alice.ID, note, bob.Username, domain.PermissionWrite))
	grant, err := shareRepo.Find(domain.KindNote, note.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionWrite, grant.Permission)

	require.NoError(t, svc.Unshare(alice.ID, note, bob.Username))
	_, err = shareRepo.Find(domain.KindNote, note.ID, bob.ID)
	assert.ErrorIs(t, err, common.ErrShareNotFound)

	// Revoking again is an error
	assert.ErrorIs(t, svc.Unshare(alice.ID, note, bob.Username), common.ErrShareNotFound)
}

func TestShareService_List(t *testing.T) {
	svc, _, alice, bob, note := newShareFixture(t)

	_, err := svc.Share(alice.ID, note, bob.Username, domain.PermissionRead)
	require.NoError(t, err)

	shares, err := svc.List(alice.ID, note)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, "bob", shares[0].Username)

	// Grant holders cannot enumerate the other grants
	_, err = svc.List(bob.ID, note)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)
}
