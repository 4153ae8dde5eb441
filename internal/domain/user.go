package domain

import (
	"time"

	"gorm.io/gorm"
)

// User status values
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBanned   = "banned"
)

// User represents a registered account
type User struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username    string         `gorm:"column:username;type:varchar(50);uniqueIndex" json:"username"`
	Email       string         `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Password    string         `gorm:"column:password;type:varchar(255)" json:"-"`
	FirstName   string         `gorm:"column:first_name;type:varchar(100)" json:"first_name,omitempty"`
	LastName    string         `gorm:"column:last_name;type:varchar(100)" json:"last_name,omitempty"`
	Nickname    string         `gorm:"column:nickname;type:varchar(100)" json:"nickname"`
	AboutMe     *string        `gorm:"column:about_me;type:text" json:"about_me,omitempty"`
	Status      string         `gorm:"column:status;type:varchar(20);default:'active'" json:"status"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"-"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string { return "users" }

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive && !u.DeletedAt.Valid
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AboutMe   string `json:"about_me,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Nickname:  u.Nickname,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.AboutMe != nil {
		resp.AboutMe = *u.AboutMe
	}
	return resp
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Nickname  string  `json:"nickname" binding:"required"`
	AboutMe   *string `json:"about_me"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
