package service

import (
	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserService user profile business logic
type UserService interface {
	GetByID(id uint64) (*domain.UserResponse, error)
	GetByUsername(username string) (*domain.UserResponse, error)
	UpdateProfile(userID uint64, req *domain.UpdateProfileRequest) (*domain.UserResponse, error)
	ChangePassword(userID uint64, req *domain.ChangePasswordRequest) error
	Deactivate(userID uint64) error
	Search(query string, page, limit int) ([]*domain.UserResponse, int64, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetByID returns a user's public profile
func (s *userService) GetByID(id uint64) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// GetByUsername returns a user's public profile by username
func (s *userService) GetByUsername(username string) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfile updates the user's own profile
func (s *userService) UpdateProfile(userID uint64, req *domain.UpdateProfileRequest) (*domain.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Nickname = req.Nickname
	user.AboutMe = req.AboutMe

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePassword verifies the old password and stores a new hash
func (s *userService) ChangePassword(userID uint64, req *domain.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return common.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.userRepo.Update(user)
}

// Deactivate marks the account inactive and soft-deletes it
func (s *userService) Deactivate(userID uint64) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	user.Status = domain.UserStatusInactive
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	return s.userRepo.Delete(userID)
}

// Search finds users by username or nickname
func (s *userService) Search(query string, page, limit int) ([]*domain.UserResponse, int64, error) {
	users, total, err := s.userRepo.Search(query, page, limit)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*domain.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, total, nil
}
