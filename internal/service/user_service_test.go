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

func newUserFixture(t *testing.T) (UserService, *gorm.DB) {
	db := newTestDB(t)
	return NewUserService(repository.NewUserRepository(db)), db
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, db := newUserFixture(t)
	alice := createUser(t, db, "alice")

	about := "I take notes"
	resp, err := svc.UpdateProfile(alice.ID, &domain.UpdateProfileRequest{
		FirstName: "Alice",
		Nickname:  "ally",
		AboutMe:   &about,
	})
	require.NoError(t, err)
	assert.Equal(t, "ally", resp.Nickname)
	assert.Equal(t, "I take notes", resp.AboutMe)
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, db := newUserFixture(t)
	alice := createUser(t, db, "alice")

	err := svc.ChangePassword(alice.ID, &domain.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpassword1",
	})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(alice.ID, &domain.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword1",
	}))

	// The old password no longer matches
	err = svc.ChangePassword(alice.ID, &domain.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "another1234",
	})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestUserService_Deactivate(t *testing.T) {
	svc, db := newUserFixture(t)
	alice := createUser(t, db, "alice")

	require.NoError(t, svc.Deactivate(alice.ID))

	// The soft-deleted account is gone from lookups
	_, err := svc.GetByID(alice.ID)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	_, err = svc.GetByUsername("alice")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUserService_Search(t *testing.T) {
	svc, db := newUserFixture(t)
	createUser(t, db, "alice")
	createUser(t, db, "alicia")
	createUser(t, db, "bob")

	results, total, err := svc.Search("ali", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, results, 2)

	_, total, err = svc.Search("zzz", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
