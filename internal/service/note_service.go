package service

import (
	"context"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
	"github.com/notesphere/backend/pkg/cache"
)

// NoteService note business logic
type NoteService interface {
	Create(userID uint64, req *domain.NoteRequest) (*domain.NoteResponse, error)
	Get(viewerID, noteID uint64) (*domain.NoteResponse, error)
	Update(userID, noteID uint64, req *domain.NoteRequest) (*domain.NoteResponse, error)
	Delete(userID, noteID uint64) error
	ListMine(userID uint64, page, limit int) ([]*domain.NoteResponse, int64, error)
	ListSharedWithMe(userID uint64, page, limit int) ([]*domain.NoteResponse, int64, error)
	ListPublic(viewerID uint64, page, limit int) ([]*domain.NoteResponse, int64, error)
	Search(viewerID uint64, query string, page, limit int) ([]*domain.NoteResponse, int64, error)
	AddToRepository(userID, noteID, repositoryID uint64) error
	RemoveFromRepository(userID, noteID, repositoryID uint64) error
	Share(userID, noteID uint64, req *domain.ShareRequest) (*domain.ShareResponse, error)
	UpdateSharePermission(userID, noteID uint64, req *domain.ShareRequest) error
	Unshare(userID, noteID uint64, username string) error
	ListShares(userID, noteID uint64) ([]*domain.ShareResponse, error)
}

type noteService struct {
	noteRepo  repository.NoteRepository
	repoRepo  repository.RepoRepository
	likeRepo  repository.LikeRepository
	userRepo  repository.UserRepository
	resolver  AccessResolver
	shareSvc  ShareService
	searchSvc SearchService
	cacheSvc  cache.Service
}

// NewNoteService creates a new NoteService
func NewNoteService(
	noteRepo repository.NoteRepository,
	repoRepo repository.RepoRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	resolver AccessResolver,
	shareSvc ShareService,
	searchSvc SearchService,
	cacheSvc cache.Service,
) NoteService {
	return &noteService{
		noteRepo:  noteRepo,
		repoRepo:  repoRepo,
		likeRepo:  likeRepo,
		userRepo:  userRepo,
		resolver:  resolver,
		shareSvc:  shareSvc,
		searchSvc: searchSvc,
		cacheSvc:  cacheSvc,
	}
}

// Create stores a new note, optionally placing it into one of the
// creator's repositories.
func (s *noteService) Create(userID uint64, req *domain.NoteRequest) (*domain.NoteResponse, error) {
	note := &domain.Note{
		CreatorID:  userID,
		Title:      req.Title,
		Content:    req.Content,
		Visibility: visibilityFrom(req.Public),
	}

	if req.RepositoryID != nil {
		repo, err := s.repoRepo.FindByID(*req.RepositoryID)
		if err != nil {
			return nil, err
		}
		if repo.CreatorID != userID {
			return nil, common.ErrNotAuthorized
		}
	}

	if err := s.noteRepo.Create(note); err != nil {
		return nil, err
	}

	if req.RepositoryID != nil {
		if err := s.noteRepo.AddToRepository(note.ID, *req.RepositoryID); err != nil {
			return nil, err
		}
	}

	s.searchSvc.IndexNote(note)
	if note.IsPublic() {
		s.invalidateFeed()
	}

	return s.assemble(note, userID)
}

// Get returns a note after resolving the viewer's access
func (s *noteService) Get(viewerID, noteID uint64) (*domain.NoteResponse, error) {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.RequireRead(note, viewerID); err != nil {
		return nil, err
	}
	return s.assemble(note, viewerID)
}

// Update modifies a note. Content edits need write access; changing
// visibility is reserved for the owner.
func (s *noteService) Update(userID, noteID uint64, req *domain.NoteRequest) (*domain.NoteResponse, error) {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.RequireWrite(note, userID); err != nil {
		return nil, err
	}

	newVisibility := visibilityFrom(req.Public)
	if newVisibility != note.Visibility && note.CreatorID != userID {
		return nil, common.ErrNotAuthorized
	}

	wasPublic := note.IsPublic()
	note.Title = req.Title
	note.Content = req.Content
	note.Visibility = newVisibility

	if err := s.noteRepo.Update(note); err != nil {
		return nil, err
	}

	s.searchSvc.IndexNote(note)
	if wasPublic || note.IsPublic() {
		s.invalidateFeed()
	}

	return s.assemble(note, userID)
}

// Delete removes a note. Owner only.
func (s *noteService) Delete(userID, noteID uint64) error {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return err
	}
	if note.CreatorID != userID {
		return common.ErrNotAuthorized
	}

	if err := s.noteRepo.Delete(noteID); err != nil {
		return err
	}

	s.searchSvc.RemoveNote(noteID)
	if note.IsPublic() {
		s.invalidateFeed()
	}
	return nil
}

// ListMine returns the user's own notes
func (s *noteService) ListMine(userID uint64, page, limit int) ([]*domain.NoteResponse, int64, error) {
	notes, total, err := s.noteRepo.FindByCreator(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(notes, userID, total)
}

// ListSharedWithMe returns notes other users have shared with the user
func (s *noteService) ListSharedWithMe(userID uint64, page, limit int) ([]*domain.NoteResponse, int64, error) {
	notes, total, err := s.noteRepo.FindSharedWith(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(notes, userID, total)
}

// ListPublic returns the public note feed
func (s *noteService) ListPublic(viewerID uint64, page, limit int) ([]*domain.NoteResponse, int64, error) {
	notes, total, err := s.noteRepo.FindPublic(page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(notes, viewerID, total)
}

// Search returns readable notes matching the query
func (s *noteService) Search(viewerID uint64, query string, page, limit int) ([]*domain.NoteResponse, int64, error) {
	notes, total, err := s.searchSvc.SearchNotes(viewerID, query, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.assembleList(notes, viewerID, total)
}

// AddToRepository links a note into a repository. The actor needs write
// access to the note and must own the repository.
func (s *noteService) AddToRepository(userID, noteID, repositoryID uint64) error {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return err
	}
	if err := s.resolver.RequireWrite(note, userID); err != nil {
		return err
	}

	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return err
	}
	if repo.CreatorID != userID {
		return common.ErrNotAuthorized
	}

	return s.noteRepo.AddToRepository(noteID, repositoryID)
}

// RemoveFromRepository unlinks a note from a repository owned by the actor
func (s *noteService) RemoveFromRepository(userID, noteID, repositoryID uint64) error {
	if _, err := s.noteRepo.FindByID(noteID); err != nil {
		return err
	}

	repo, err := s.repoRepo.FindByID(repositoryID)
	if err != nil {
		return err
	}
	if repo.CreatorID != userID {
		return common.ErrNotAuthorized
	}

	return s.noteRepo.RemoveFromRepository(noteID, repositoryID)
}

// Share grants another user access to the note
func (s *noteService) Share(userID, noteID uint64, req *domain.ShareRequest) (*domain.ShareResponse, error) {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	return s.shareSvc.Share(userID, note, req.Username, req.Permission)
}

// UpdateSharePermission changes an existing grant on the note
func (s *noteService) UpdateSharePermission(userID, noteID uint64, req *domain.ShareRequest) error {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return err
	}
	return s.shareSvc.UpdatePermission(userID, note, req.Username, req.Permission)
}

// Unshare revokes a grant on the note
func (s *noteService) Unshare(userID, noteID uint64, username string) error {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return err
	}
	return s.shareSvc.Unshare(userID, note, username)
}

// ListShares lists the grants on the note
func (s *noteService) ListShares(userID, noteID uint64) ([]*domain.ShareResponse, error) {
	note, err := s.noteRepo.FindByID(noteID)
	if err != nil {
		return nil, err
	}
	return s.shareSvc.List(userID, note)
}

func (s *noteService) assemble(note *domain.Note, viewerID uint64) (*domain.NoteResponse, error) {
	resp := note.ToResponse()

	if creator, err := s.userRepo.FindByID(note.CreatorID); err == nil {
		resp.CreatorUsername = creator.Username
	}

	likeCount, err := s.likeRepo.Count(note.ID, domain.KindNote)
	if err != nil {
		return nil, err
	}
	resp.LikeCount = likeCount

	if viewerID != 0 {
		liked, err := s.likeRepo.Exists(viewerID, note.ID, domain.KindNote)
		if err != nil {
			return nil, err
		}
		resp.LikedByMe = liked
	}

	repoIDs, err := s.noteRepo.RepositoryIDs(note.ID)
	if err != nil {
		return nil, err
	}
	resp.RepositoryIDs = repoIDs

	return resp, nil
}

func (s *noteService) assembleList(notes []*domain.Note, viewerID uint64, total int64) ([]*domain.NoteResponse, int64, error) {
	responses := make([]*domain.NoteResponse, 0, len(notes))
	for _, note := range notes {
		resp, err := s.assemble(note, viewerID)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, resp)
	}
	return responses, total, nil
}

func (s *noteService) invalidateFeed() {
	if s.cacheSvc == nil {
		return
	}
	_ = s.cacheSvc.InvalidatePublicFeed(context.Background())
}

func visibilityFrom(public bool) string {
	if public {
		return domain.VisibilityPublic
	}
	return domain.VisibilityPrivate
}
