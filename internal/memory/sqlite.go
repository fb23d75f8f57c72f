package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite connection with initialization logic.
type DB struct {
	*sql.DB

	// ftsEnabled records whether the sqlite build carries the FTS5
	// module (mattn/go-sqlite3 only includes it under the sqlite_fts5
	// build tag). Without it, search falls back to a LIKE scan.
	ftsEnabled bool
}

// FTSEnabled reports whether full-text search is available.
func (db *DB) FTSEnabled() bool { return db.ftsEnabled }

// Open creates or opens the SQLite database at the given path, runs schema
// initialization, and configures WAL mode for concurrent reads.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	ftsEnabled, err := initSchema(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{DB: db, ftsEnabled: ftsEnabled}, nil
}

func initSchema(db *sql.DB) (ftsEnabled bool, err error) {
	schema := `
CREATE TABLE IF NOT EXISTS workspaces (
  id TEXT PRIMARY KEY,
  path TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  last_accessed_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
  id TEXT PRIMARY KEY,
  workspace_id TEXT NOT NULL,
  content TEXT NOT NULL,
  tags TEXT,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  FOREIGN KEY (workspace_id) REFERENCES workspaces(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_notes_workspace ON notes(workspace_id);
CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at);
`
	if _, err := db.Exec(schema); err != nil {
		return false, fmt.Errorf("create tables: %w", err)
	}

	// FTS5 virtual table and triggers are created separately since
	// IF NOT EXISTS isn't always supported for virtual tables in older SQLite.
	fts := `
CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
  content, tags,
  content='notes', content_rowid='rowid'
);
`
	if _, err := db.Exec(fts); err != nil {
		// A build without the FTS5 module reports "no such module";
		// search degrades to a LIKE scan in that case.
		if strings.Contains(err.Error(), "no such module") {
			return false, nil
		}
		return false, fmt.Errorf("create fts table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS notes_ai AFTER INSERT ON notes BEGIN
  INSERT INTO notes_fts(rowid, content, tags)
  VALUES (NEW.rowid, NEW.content, NEW.tags);
END;`,
		`CREATE TRIGGER IF NOT EXISTS notes_ad AFTER DELETE ON notes BEGIN
  INSERT INTO notes_fts(notes_fts, rowid, content, tags)
  VALUES ('delete', OLD.rowid, OLD.content, OLD.tags);
END;`,
		`CREATE TRIGGER IF NOT EXISTS notes_au AFTER UPDATE ON notes BEGIN
  INSERT INTO notes_fts(notes_fts, rowid, content, tags)
  VALUES ('delete', OLD.rowid, OLD.content, OLD.tags);
  INSERT INTO notes_fts(rowid, content, tags)
  VALUES (NEW.rowid, NEW.content, NEW.tags);
END;`,
	}

	for _, t := range triggers {
		if _, err := db.Exec(t); err != nil {
			return false, fmt.Errorf("create trigger: %w", err)
		}
	}

	return true, nil
}

// NoteCount returns the total number of notes in the database.
func (db *DB) NoteCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count)
	return count, err
}
