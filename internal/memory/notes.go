package memory

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// Note is a stored workspace note.
type Note struct {
	ID          string   `json:"id"`
	WorkspaceID string   `json:"workspaceId"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// noteColumns is the canonical column list for all SELECT queries.
// Order must match scanOne/scanMany.
const noteColumns = `id, workspace_id, content, tags, created_at, updated_at`

// NoteStore handles note CRUD and full-text search on SQLite.
type NoteStore struct {
	db *DB
}

func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

// Insert stores a new note. The caller must set all fields including ID.
func (s *NoteStore) Insert(n *Note) error {
	tagsJSON, _ := json.Marshal(n.Tags)
	_, err := s.db.Exec(`
		INSERT INTO notes (id, workspace_id, content, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.ID, n.WorkspaceID, n.Content, string(tagsJSON), n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// GetByID fetches a single note by ID, or nil when absent.
func (s *NoteStore) GetByID(id string) (*Note, error) {
	n, err := scanNote(s.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM notes WHERE id = ?`, noteColumns), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return n, err
}

// Delete removes a note by ID.
func (s *NoteStore) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	return nil
}

// ListRecent returns a workspace's notes newest first, with the total
// count before paging.
func (s *NoteStore) ListRecent(workspaceID string, limit, offset int) ([]Note, int, error) {
	var total int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM notes WHERE workspace_id = ?`, workspaceID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE workspace_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, noteColumns), workspaceID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes, err := scanNotes(rows)
	return notes, total, err
}

// FTSResult pairs a note with its BM25 score (higher = better).
type FTSResult struct {
	Note  Note
	Score float64
}

// SearchFTS performs BM25 full-text search scoped to a workspace,
// returning up to limit ranked results plus the total match count. When
// the sqlite build lacks the FTS5 module it falls back to a LIKE scan;
// the caller's fuzzy re-rank still orders those results.
func (s *NoteStore) SearchFTS(workspaceID, query string, limit int) ([]FTSResult, int, error) {
	if !s.db.FTSEnabled() {
		return s.searchLike(workspaceID, query, limit)
	}

	match := ftsQuery(query)
	if match == "" {
		return nil, 0, nil
	}

	var total int
	if err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM notes_fts
		JOIN notes n ON n.rowid = notes_fts.rowid
		WHERE notes_fts MATCH ? AND n.workspace_id = ?
	`, match, workspaceID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count fts matches: %w", err)
	}

	// bm25() ranks are negative with more negative = better; negate so
	// higher = better.
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s, -rank AS score
		FROM notes_fts
		JOIN notes n ON n.rowid = notes_fts.rowid
		WHERE notes_fts MATCH ? AND n.workspace_id = ?
		ORDER BY rank
		LIMIT ?
	`, prefixedNoteColumns("n")), match, workspaceID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()

	var results []FTSResult
	for rows.Next() {
		var r FTSResult
		var tags sql.NullString
		if err := rows.Scan(
			&r.Note.ID, &r.Note.WorkspaceID, &r.Note.Content, &tags,
			&r.Note.CreatedAt, &r.Note.UpdatedAt, &r.Score,
		); err != nil {
			return nil, 0, fmt.Errorf("scan fts result: %w", err)
		}
		r.Note.Tags = decodeTags(tags)
		results = append(results, r)
	}
	return results, total, rows.Err()
}

// searchLike is the search path for sqlite builds without FTS5: every
// token must appear as a substring of content or tags, newest notes
// first, score 0 (no ranking signal beyond recency).
func (s *NoteStore) searchLike(workspaceID, query string, limit int) ([]FTSResult, int, error) {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return nil, 0, nil
	}

	where := `workspace_id = ?`
	args := []any{workspaceID}
	for _, f := range fields {
		where += ` AND (content LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`
		pattern := "%" + likeEscape(f) + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM notes WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count like matches: %w", err)
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM notes
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT ?
	`, noteColumns, where), append(args, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("like search: %w", err)
	}
	defer rows.Close()

	notes, err := scanNotes(rows)
	if err != nil {
		return nil, 0, err
	}
	results := make([]FTSResult, 0, len(notes))
	for _, n := range notes {
		results = append(results, FTSResult{Note: n})
	}
	return results, total, nil
}

// likeEscape neutralizes LIKE metacharacters in a user token, paired
// with ESCAPE '\' in the query.
func likeEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ftsQuery turns free text into an FTS5 MATCH expression: each token is
// quoted (so user punctuation cannot break the query syntax) and given
// a prefix wildcard, all tokens required.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}

func prefixedNoteColumns(alias string) string {
	cols := strings.Split(noteColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*Note, error) {
	var n Note
	var tags sql.NullString
	if err := row.Scan(&n.ID, &n.WorkspaceID, &n.Content, &tags, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Tags = decodeTags(tags)
	return &n, nil
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func decodeTags(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return nil
	}
	return tags
}
