package migration

import (
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for every model. Tables are created when
// missing and altered in place when columns were added.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Note{},
		&domain.Repository{},
		&domain.SharedNote{},
		&domain.SharedRepository{},
		&domain.Friendship{},
		&domain.Follow{},
		&domain.Like{},
		&domain.Comment{},
		&domain.Message{},
		&domain.Notification{},
	)
}
