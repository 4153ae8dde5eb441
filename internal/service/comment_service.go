package service

import (
	"fmt"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
)

// CommentService comment business logic for notes and repositories
type CommentService interface {
	Add(userID, targetID uint64, kind domain.ResourceKind, req *domain.CommentRequest) (*domain.CommentResponse, error)
	List(viewerID, targetID uint64, kind domain.ResourceKind, page, limit int) ([]*domain.CommentResponse, int64, error)
	Update(userID, commentID uint64, req *domain.CommentRequest) (*domain.CommentResponse, error)
	Delete(userID, commentID uint64) error
}

type commentService struct {
	commentRepo     repository.CommentRepository
	noteRepo        repository.NoteRepository
	repoRepo        repository.RepoRepository
	userRepo        repository.UserRepository
	resolver        AccessResolver
	notificationSvc NotificationService
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	noteRepo repository.NoteRepository,
	repoRepo repository.RepoRepository,
	userRepo repository.UserRepository,
	resolver AccessResolver,
	notificationSvc NotificationService,
) CommentService {
	return &commentService{
		commentRepo:     commentRepo,
		noteRepo:        noteRepo,
		repoRepo:        repoRepo,
		userRepo:        userRepo,
		resolver:        resolver,
		notificationSvc: notificationSvc,
	}
}

// Add posts a comment on a readable target
func (s *commentService) Add(userID, targetID uint64, kind domain.ResourceKind, req *domain.CommentRequest) (*domain.CommentResponse, error) {
	target, err := s.readable(userID, targetID, kind)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		UserID:          userID,
		CommentableID:   targetID,
		CommentableKind: kind,
		Content:         req.Content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	if author, err := s.userRepo.FindByID(userID); err == nil {
		noun := "note"
		if kind == domain.KindRepository {
			noun = "repository"
		}
		s.notificationSvc.Notify(target.OwnerID(), userID, domain.NotificationNewComment,
			fmt.Sprintf("%s commented on your %s", author.Username, noun),
			targetID, string(kind))
	}

	return s.assemble(comment), nil
}

// List returns the comments on a readable target, oldest first
func (s *commentService) List(viewerID, targetID uint64, kind domain.ResourceKind, page, limit int) ([]*domain.CommentResponse, int64, error) {
	if _, err := s.readable(viewerID, targetID, kind); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.commentRepo.FindByTarget(kind, targetID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*domain.CommentResponse, len(comments))
	for i, comment := range comments {
		responses[i] = s.assemble(comment)
	}
	return responses, total, nil
}

// Update edits a comment. Author only.
func (s *commentService) Update(userID, commentID uint64, req *domain.CommentRequest) (*domain.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, common.ErrNotAuthorized
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return s.assemble(comment), nil
}

// Delete removes a comment. The author may always delete their own comment;
// the owner of the commented resource may moderate comments on it.
func (s *commentService) Delete(userID, commentID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		target, err := s.find(comment.CommentableID, comment.CommentableKind)
		if err != nil {
			return err
		}
		if target.OwnerID() != userID {
			return common.ErrNotAuthorized
		}
	}

	return s.commentRepo.Delete(commentID)
}

func (s *commentService) find(targetID uint64, kind domain.ResourceKind) (domain.Protected, error) {
	switch kind {
	case domain.KindNote:
		return s.noteRepo.FindByID(targetID)
	case domain.KindRepository:
		return s.repoRepo.FindByID(targetID)
	default:
		return nil, common.ErrInvalidInput
	}
}

func (s *commentService) readable(userID, targetID uint64, kind domain.ResourceKind) (domain.Protected, error) {
	target, err := s.find(targetID, kind)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.RequireRead(target, userID); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *commentService) assemble(comment *domain.Comment) *domain.CommentResponse {
	resp := comment.ToResponse()
	if author, err := s.userRepo.FindByID(comment.UserID); err == nil {
		resp.Username = author.Username
	}
	return resp
}
