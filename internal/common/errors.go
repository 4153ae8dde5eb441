package common

import "errors"

// Business logic errors
var (
	// Resource lookup errors
	ErrNoteNotFound         = errors.New("note not found")
	ErrRepositoryNotFound   = errors.New("repository not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrShareNotFound        = errors.New("share grant not found")
	ErrFriendshipNotFound   = errors.New("friendship not found")
	ErrFollowNotFound       = errors.New("follow not found")
	ErrLikeNotFound         = errors.New("like not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Access control errors
	ErrNotAuthorized          = errors.New("not authorized to access this resource")
	ErrInsufficientPermission = errors.New("insufficient permission for this operation")

	// Duplicate-creation errors (strict APIs)
	ErrAlreadyShared     = errors.New("resource is already shared with this user")
	ErrFriendshipExists  = errors.New("friendship already exists")
	ErrAlreadyFollowing  = errors.New("already following this repository")
	ErrAlreadyLiked      = errors.New("already liked")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrEmailTaken        = errors.New("email is already registered")

	// State machine errors
	ErrInvalidState  = errors.New("operation not allowed in current state")
	ErrSelfReference = errors.New("operation cannot target yourself")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
