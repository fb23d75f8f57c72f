package memory

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50

	// rerankWindow is how many BM25-ranked rows the fuzzy re-ranker
	// considers. It must comfortably exceed a page so paging stays
	// stable under re-ordering.
	rerankWindow = 50
)

// StoreRequest creates a note in a workspace identified by path.
type StoreRequest struct {
	Workspace string   `json:"workspace"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags,omitempty"`
}

// SearchRequest queries a workspace's notes. An empty query lists the
// most recent notes instead of matching.
type SearchRequest struct {
	Workspace string `json:"workspace"`
	Query     string `json:"query"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// SearchResponse is a page of notes plus the total before paging.
type SearchResponse struct {
	Items []Note `json:"items"`
	Total int    `json:"total"`
}

// Service is the facade for all note operations.
type Service struct {
	notes      *NoteStore
	workspaces *WorkspaceStore
	logger     *slog.Logger
}

func NewService(notes *NoteStore, workspaces *WorkspaceStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{notes: notes, workspaces: workspaces, logger: logger}
}

// Store creates a note, registering the workspace on first use.
func (s *Service) Store(req *StoreRequest) (*Note, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	wsID, err := s.workspaces.Ensure(req.Workspace)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	n := &Note{
		ID:          uuid.New().String(),
		WorkspaceID: wsID,
		Content:     content,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.notes.Insert(n); err != nil {
		return nil, err
	}
	s.logger.Info("note stored", "id", n.ID, "workspace", wsID)
	return n, nil
}

// Search returns a page of notes for a workspace. Non-empty queries run
// BM25 full-text search and re-rank the top window with a fuzzy
// matcher, which keeps one- and two-letter queries ordered sensibly
// where BM25 alone degenerates.
func (s *Service) Search(req *SearchRequest) (*SearchResponse, error) {
	limit, offset := clampPage(req.Limit, req.Offset)
	wsID, err := s.workspaces.Ensure(req.Workspace)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		items, total, err := s.notes.ListRecent(wsID, limit, offset)
		if err != nil {
			return nil, err
		}
		return &SearchResponse{Items: items, Total: total}, nil
	}

	window := rerankWindow
	if offset+limit > window {
		window = offset + limit
	}
	results, total, err := s.notes.SearchFTS(wsID, query, window)
	if err != nil {
		return nil, err
	}

	ranked := rerank(query, results)
	page := pageOf(ranked, limit, offset)
	return &SearchResponse{Items: page, Total: total}, nil
}

// List returns a workspace's notes newest first.
func (s *Service) List(workspace string, limit, offset int) (*SearchResponse, error) {
	limit, offset = clampPage(limit, offset)
	wsID, err := s.workspaces.Ensure(workspace)
	if err != nil {
		return nil, err
	}
	items, total, err := s.notes.ListRecent(wsID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &SearchResponse{Items: items, Total: total}, nil
}

// Delete removes a note by ID.
func (s *Service) Delete(id string) error {
	return s.notes.Delete(id)
}

// Workspaces lists registered workspaces.
func (s *Service) Workspaces() ([]Workspace, error) {
	return s.workspaces.List()
}

// rerank orders the BM25 window by fuzzy match quality. Notes the fuzzy
// matcher rejects keep their BM25 order after the matched ones; the
// window is never filtered down, only re-ordered.
func rerank(query string, results []FTSResult) []Note {
	if len(results) == 0 {
		return nil
	}
	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Note.Content
	}

	matches := fuzzy.Find(query, contents)
	seen := make(map[int]bool, len(matches))
	out := make([]Note, 0, len(results))
	for _, m := range matches {
		out = append(out, results[m.Index].Note)
		seen[m.Index] = true
	}
	for i, r := range results {
		if !seen[i] {
			out = append(out, r.Note)
		}
	}
	return out
}

func pageOf(notes []Note, limit, offset int) []Note {
	if offset >= len(notes) {
		return nil
	}
	end := offset + limit
	if end > len(notes) {
		end = len(notes)
	}
	return notes[offset:end]
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
