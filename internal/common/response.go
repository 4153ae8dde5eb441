package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse standard API response structure
type APIResponse struct {
	Data  interface{} `json:"data"`
	Meta  *Meta       `json:"meta,omitempty"`
	Error *ErrorInfo  `json:"error,omitempty"`
}

// Meta pagination and additional metadata
type Meta struct {
	Page  int   `json:"page,omitempty"`
	Limit int   `json:"limit,omitempty"`
	Total int64 `json:"total,omitempty"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Data: data,
		Meta: meta,
	})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string, _ error) {
	c.JSON(status, gin.H{
		"error": &ErrorInfo{
			Code:    getErrorCode(status),
			Message: message,
		},
	})
}

// ServiceError translates a service sentinel error to an HTTP error response
func ServiceError(c *gin.Context, err error) {
	ErrorResponse(c, StatusFor(err), err.Error(), err)
}

// StatusFor maps service sentinel errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoteNotFound),
		errors.Is(err, ErrRepositoryNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrShareNotFound),
		errors.Is(err, ErrFriendshipNotFound),
		errors.Is(err, ErrFollowNotFound),
		errors.Is(err, ErrLikeNotFound),
		errors.Is(err, ErrCommentNotFound),
		errors.Is(err, ErrMessageNotFound),
		errors.Is(err, ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotAuthorized),
		errors.Is(err, ErrInsufficientPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAlreadyShared),
		errors.Is(err, ErrFriendshipExists),
		errors.Is(err, ErrAlreadyFollowing),
		errors.Is(err, ErrAlreadyLiked),
		errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrSelfReference),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
