package service

import (
	"testing"

	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/migration"
	pkgcache "github.com/notesphere/backend/pkg/cache"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestCache returns a cache service without a Redis backend
func newTestCache() pkgcache.Service {
	return pkgcache.NewService(nil)
}

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))
	return db
}

// createUser inserts a user with the given username and returns it
func createUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Nickname: username,
		Status:   domain.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createNote inserts a note owned by the given user
func createNote(t *testing.T, db *gorm.DB, creatorID uint64, title, visibility string) *domain.Note {
	t.Helper()
	note := &domain.Note{
		CreatorID:  creatorID,
		Title:      title,
		Content:    "content of " + title,
		Visibility: visibility,
	}
	require.NoError(t, db.Create(note).Error)
	return note
}

// createRepository inserts a repository owned by the given user
func createRepository(t *testing.T, db *gorm.DB, creatorID uint64, name, visibility string) *domain.Repository {
	t.Helper()
	repo := &domain.Repository{
		CreatorID:  creatorID,
		Name:       name,
		Visibility: visibility,
	}
	require.NoError(t, db.Create(repo).Error)
	return repo
}
