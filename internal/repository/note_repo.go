package repository

import (
	"errors"

	"github.com/notesphere/backend/internal/common"
	"github.com/notesphere/backend/internal/domain"
	"gorm.io/gorm"
)

// NoteRepository note data access interface
type NoteRepository interface {
	Create(note *domain.Note) error
	FindByID(id uint64) (*domain.Note, error)
	FindByCreator(creatorID uint64, page, limit int) ([]*domain.Note, int64, error)
	FindPublic(page, limit int) ([]*domain.Note, int64, error)
	FindSharedWith(userID uint64, page, limit int) ([]*domain.Note, int64, error)
	FindByRepository(repositoryID uint64, page, limit int) ([]*domain.Note, int64, error)
	Search(query string, page, limit int) ([]*domain.Note, int64, error)
	Update(note *domain.Note) error
	Delete(id uint64) error
	AddToRepository(noteID, repositoryID uint64) error
	RemoveFromRepository(noteID, repositoryID uint64) error
	RepositoryIDs(noteID uint64) ([]uint64, error)
	CountByRepository(repositoryID uint64) (int64, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Create inserts a new note
func (r *noteRepository) Create(note *domain.Note) error {
	return r.db.Create(note).Error
}

// FindByID returns a note by ID
func (r *noteRepository) FindByID(id uint64) (*domain.Note, error) {
	var note domain.Note
	if err := r.db.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

// FindByCreator returns notes owned by a user, newest first
func (r *noteRepository) FindByCreator(creatorID uint64, page, limit int) ([]*domain.Note, int64, error) {
	return r.paginate(r.db.Model(&domain.Note{}).Where("creator_id = ?", creatorID), page, limit)
}

// FindPublic returns publicly visible notes, newest first
func (r *noteRepository) FindPublic(page, limit int) ([]*domain.Note, int64, error) {
	return r.paginate(r.db.Model(&domain.Note{}).Where("visibility = ?", domain.VisibilityPublic), page, limit)
}

// FindSharedWith returns notes that carry an explicit grant for the user
func (r *noteRepository) FindSharedWith(userID uint64, page, limit int) ([]*domain.Note, int64, error) {
	q := r.db.Model(&domain.Note{}).
		Joins("JOIN shared_notes sn ON sn.note_id = notes.id").
		Where("sn.user_id = ?", userID)
	return r.paginate(q, page, limit)
}

// FindByRepository returns the notes collected in a repository
func (r *noteRepository) FindByRepository(repositoryID uint64, page, limit int) ([]*domain.Note, int64, error) {
	q := r.db.Model(&domain.Note{}).
		Joins("JOIN note_repositories nr ON nr.note_id = notes.id").
		Where("nr.repository_id = ?", repositoryID)
	return r.paginate(q, page, limit)
}

// Search matches notes by title or content. This is the database fallback;
// the search service prefers Elasticsearch when it is available.
func (r *noteRepository) Search(query string, page, limit int) ([]*domain.Note, int64, error) {
	pattern := "%" + query + "%"
	q := r.db.Model(&domain.Note{}).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern)
	return r.paginate(q, page, limit)
}

// Update saves note changes
func (r *noteRepository) Update(note *domain.Note) error {
	return r.db.Save(note).Error
}

// Delete soft-deletes a note and detaches it from repositories and grants
func (r *noteRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Note{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNoteNotFound
		}
		if err := tx.Exec("DELETE FROM note_repositories WHERE note_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("note_id = ?", id).Delete(&domain.SharedNote{}).Error
	})
}

// AddToRepository links a note into a repository
func (r *noteRepository) AddToRepository(noteID, repositoryID uint64) error {
	var count int64
	if err := r.db.Table("note_repositories").
		Where("note_id = ? AND repository_id = ?", noteID, repositoryID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.Exec("INSERT INTO note_repositories (note_id, repository_id) VALUES (?, ?)",
		noteID, repositoryID).Error
}

// RemoveFromRepository unlinks a note from a repository
func (r *noteRepository) RemoveFromRepository(noteID, repositoryID uint64) error {
	result := r.db.Exec("DELETE FROM note_repositories WHERE note_id = ? AND repository_id = ?",
		noteID, repositoryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNoteNotFound
	}
	return nil
}

// RepositoryIDs returns the repositories a note belongs to
func (r *noteRepository) RepositoryIDs(noteID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Table("note_repositories").
		Where("note_id = ?", noteID).
		Pluck("repository_id", &ids).Error
	return ids, err
}

// CountByRepository returns how many notes a repository holds
func (r *noteRepository) CountByRepository(repositoryID uint64) (int64, error) {
	var count int64
	err := r.db.Table("note_repositories").
		Where("repository_id = ?", repositoryID).
		Count(&count).Error
	return count, err
}

func (r *noteRepository) paginate(q *gorm.DB, page, limit int) ([]*domain.Note, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []*domain.Note
	err := q.Order("notes.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notes).Error
	return notes, total, err
}
