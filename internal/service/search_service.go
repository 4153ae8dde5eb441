package service

import (
	"context"
	"strconv"

	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/repository"
	pkges "github.com/notesphere/backend/pkg/elasticsearch"
	"github.com/notesphere/backend/pkg/logger"
)

// SearchService full-text note search. Elasticsearch is the primary
// backend; without it the service falls back to database LIKE matching.
// Results are filtered through the access resolver so a search never
// leaks notes the viewer cannot read.
type SearchService interface {
	SearchNotes(viewerID uint64, query string, page, limit int) ([]*domain.Note, int64, error)
	IndexNote(note *domain.Note)
	RemoveNote(noteID uint64)
	EnsureIndex(ctx context.Context) error
}

type searchService struct {
	esClient  *pkges.Client
	noteIndex string
	noteRepo  repository.NoteRepository
	resolver  AccessResolver
}

// NewSearchService creates a new SearchService. esClient may be nil.
func NewSearchService(esClient *pkges.Client, noteIndex string, noteRepo repository.NoteRepository, resolver AccessResolver) SearchService {
	if noteIndex == "" {
		noteIndex = "notes"
	}
	return &searchService{
		esClient:  esClient,
		noteIndex: noteIndex,
		noteRepo:  noteRepo,
		resolver:  resolver,
	}
}

// SearchNotes returns notes matching the query that the viewer may read
func (s *searchService) SearchNotes(viewerID uint64, query string, page, limit int) ([]*domain.Note, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var candidates []*domain.Note
	var total int64
	var err error

	if s.esClient != nil {
		candidates, total, err = s.searchES(viewerID, query, page, limit)
		if err != nil {
			logger.GetLogger().Warn().Err(err).Msg("elasticsearch search failed, falling back to database")
			candidates, total, err = s.noteRepo.Search(query, page, limit)
		}
	} else {
		candidates, total, err = s.noteRepo.Search(query, page, limit)
	}
	if err != nil {
		return nil, 0, err
	}

	visible := make([]*domain.Note, 0, len(candidates))
	for _, note := range candidates {
		ok, err := s.resolver.CanRead(note, viewerID)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			visible = append(visible, note)
		}
	}

	hidden := int64(len(candidates) - len(visible))
	if total >= hidden {
		total -= hidden
	}
	return visible, total, nil
}

func (s *searchService) searchES(viewerID uint64, query string, page, limit int) ([]*domain.Note, int64, error) {
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "content"},
			},
		},
	}

	resp, err := s.esClient.Search(context.Background(), s.noteIndex, esQuery, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	notes := make([]*domain.Note, 0, len(resp.Results))
	for _, hit := range resp.Results {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		note, err := s.noteRepo.FindByID(id)
		if err != nil {
			// Stale index entry
			continue
		}
		notes = append(notes, note)
	}
	return notes, resp.Total, nil
}

// IndexNote stores the note document in the search index. Failures are
// logged and never surfaced to the caller.
func (s *searchService) IndexNote(note *domain.Note) {
	if s.esClient == nil {
		return
	}
	doc := map[string]interface{}{
		"title":      note.Title,
		"content":    note.Content,
		"creator_id": note.CreatorID,
		"visibility": note.Visibility,
		"created_at": note.CreatedAt,
	}
	if err := s.esClient.IndexDocument(context.Background(), s.noteIndex, strconv.FormatUint(note.ID, 10), doc); err != nil {
		logger.GetLogger().Warn().Err(err).Uint64("note_id", note.ID).Msg("failed to index note")
	}
}

// RemoveNote deletes the note document from the search index
func (s *searchService) RemoveNote(noteID uint64) {
	if s.esClient == nil {
		return
	}
	if err := s.esClient.DeleteDocument(context.Background(), s.noteIndex, strconv.FormatUint(noteID, 10)); err != nil {
		logger.GetLogger().Warn().Err(err).Uint64("note_id", noteID).Msg("failed to remove note from index")
	}
}

// EnsureIndex creates the note index with its mapping if missing
func (s *searchService) EnsureIndex(ctx context.Context) error {
	if s.esClient == nil {
		return nil
	}
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":      map[string]interface{}{"type": "text"},
				"content":    map[string]interface{}{"type": "text"},
				"creator_id": map[string]interface{}{"type": "long"},
				"visibility": map[string]interface{}{"type": "keyword"},
				"created_at": map[string]interface{}{"type": "date"},
			},
		},
	}
	return s.esClient.CreateIndex(ctx, s.noteIndex, mapping)
}
