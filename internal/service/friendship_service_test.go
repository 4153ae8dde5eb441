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

func newFriendshipFixture(t *testing.T) (FriendshipService, *gorm.DB, *domain.User, *domain.User) {
	db := newTestDB(t)
	friendshipRepo := repository.NewFriendshipRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db))
	svc := NewFriendshipService(friendshipRepo, userRepo, notificationSvc)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	return svc, db, alice, bob
}

func TestFriendshipService_RequestAndAccept(t *testing.T) {
	svc, db, alice, bob := newFriendshipFixture(t)

	resp, err := svc.Request(alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.FriendshipPending, resp.Status)
	assert.Equal(t, "alice", resp.RequesterUsername)
	assert.Equal(t, "bob", resp.ReceiverUsername)

	// The receiver got a notification
	var count int64
	db.Model(&domain.Notification{}).
		Where("user_id = ? AND type = ?", bob.ID, domain.NotificationFriendRequest).
		Count(&count)
	assert.EqualValues(t, 1, count)

	accepted, err := svc.Accept(bob.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendshipAccepted, accepted.Status)

	friends, total, err := svc.ListFriends(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)
}

func TestFriendshipService_RequestRules(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	_, err := svc.Request(alice.ID, "alice")
	assert.ErrorIs(t, err, common.ErrSelfReference)

	_, err = svc.Request(alice.ID, "nobody")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	resp, err := svc.Request(alice.ID, "bob")
	require.NoError(t, err)

	// A pending request cannot be duplicated, in either direction
	_, err = svc.Request(alice.ID, "bob")
	assert.ErrorIs(t, err, common.ErrFriendshipExists)
	_, err = svc.Request(bob.ID, "alice")
	assert.ErrorIs(t, err, common.ErrFriendshipExists)

	_, err = svc.Accept(bob.ID, resp.ID)
	require.NoError(t, err)
	_, err = svc.Request(alice.ID, "bob")
	assert.ErrorIs(t, err, common.ErrFriendshipExists)
}

func TestFriendshipService_AnswerRules(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	resp, err := svc.Request(alice.ID, "bob")
	require.NoError(t, err)

	// The requester cannot answer their own request
	_, err = svc.Accept(alice.ID, resp.ID)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)
	_, err = svc.Reject(alice.ID, resp.ID)
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	_, err = svc.Accept(bob.ID, resp.ID)
	require.NoError(t, err)

	// An accepted request cannot be answered again
	_, err = svc.Accept(bob.ID, resp.ID)
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestFriendshipService_RejectedCanBeReRequested(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	resp, err := svc.Request(alice.ID, "bob")
	require.NoError(t, err)

	rejected, err := svc.Reject(bob.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendshipRejected, rejected.Status)

	// Either side may reopen a rejected relation; the new requester owns it
	reopened, err := svc.Request(bob.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.FriendshipPending, reopened.Status)
	assert.Equal(t, bob.ID, reopened.RequesterID)
	assert.Equal(t, alice.ID, reopened.ReceiverID)
}

func TestFriendshipService_Unfriend(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	resp, err := svc.Request(alice.ID, "bob")
	require.NoError(t, err)

	// A pending request is not a friendship yet
	assert.ErrorIs(t, svc.Unfriend(alice.ID, bob.ID), common.ErrInvalidState)

	_, err = svc.Accept(bob.ID, resp.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unfriend(bob.ID, alice.ID))

	_, total, err := svc.ListFriends(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestFriendshipService_Block(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	resp, err := svc.Request(alice.ID, "bob")
	require.NoError(t, err)
	_, err = svc.Accept(bob.ID, resp.ID)
	require.NoError(t, err)

	// Blocking replaces the accepted state
	require.NoError(t, svc.Block(alice.ID, bob.ID))

	_, total, err := svc.ListFriends(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	// A blocked user cannot request
	_, err = svc.Request(bob.ID, "alice")
	assert.ErrorIs(t, err, common.ErrInvalidState)

	// Only the blocker may unblock
	assert.ErrorIs(t, svc.Unblock(bob.ID, alice.ID), common.ErrNotAuthorized)
	require.NoError(t, svc.Unblock(alice.ID, bob.ID))

	// After unblocking the relation is gone and can restart
	_, err = svc.Request(bob.ID, "alice")
	require.NoError(t, err)
}

func TestFriendshipService_BlockRules(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	assert.ErrorIs(t, svc.Block(alice.ID, alice.ID), common.ErrSelfReference)
	assert.ErrorIs(t, svc.Block(alice.ID, 9999), common.ErrUserNotFound)

	// Blocking with no prior relation creates the block
	require.NoError(t, svc.Block(alice.ID, bob.ID))

	// The blocked side cannot take over the block
	assert.ErrorIs(t, svc.Block(bob.ID, alice.ID), common.ErrInvalidState)
}

func TestFriendshipService_Toggle(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	// No relation: toggling sends a request
	result, err := svc.Toggle(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendshipPending, result.Status)

	// Requester toggling again cancels the request
	result, err = svc.Toggle(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", result.Status)

	// Receiver toggling a pending request accepts it
	_, err = svc.Toggle(alice.ID, bob.ID)
	require.NoError(t, err)
	result, err = svc.Toggle(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendshipAccepted, result.Status)

	// Toggling an accepted friendship ends it
	result, err = svc.Toggle(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", result.Status)
}

func TestFriendshipService_ToggleBlockedAndRejected(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	resp, err := svc.Request(alice.ID, "bob")
	require.NoError(t, err)
	_, err = svc.Reject(bob.ID, resp.ID)
	require.NoError(t, err)

	// Toggling a rejected relation reopens it with the toggler as requester
	result, err := svc.Toggle(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FriendshipPending, result.Status)
	assert.Equal(t, bob.ID, result.Friendship.RequesterID)

	require.NoError(t, svc.Block(alice.ID, bob.ID))
	_, err = svc.Toggle(bob.ID, alice.ID)
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestFriendshipService_PendingLists(t *testing.T) {
	svc, _, alice, bob := newFriendshipFixture(t)

	_, err := svc.Request(alice.ID, "bob")
	require.NoError(t, err)

	received, total, err := svc.ListPendingReceived(bob.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, received, 1)
	assert.Equal(t, "alice", received[0].RequesterUsername)

	sent, total, err := svc.ListPendingSent(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, sent, 1)

	empty, total, err := svc.ListPendingReceived(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, empty)
}
