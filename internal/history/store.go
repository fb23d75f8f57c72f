package history

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// historyFileName is the file holding every scope's history.
const historyFileName = "history.json"

// EnvHistoryPath overrides the history file location.
const EnvHistoryPath = "INKFOLD_HISTORY_PATH"

// FileStore persists scope histories as a single JSON object mapping
// scope key to entry list. A best-effort store: missing or corrupt
// files load as empty, and write failures are logged, never surfaced.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a store at the given path; an empty path falls
// back to $INKFOLD_HISTORY_PATH, then the user config directory.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = defaultHistoryPath()
	}
	return &FileStore{path: path, logger: logger}
}

func defaultHistoryPath() string {
	if custom := os.Getenv(EnvHistoryPath); custom != "" {
		return custom
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "inkfold", historyFileName)
}

// Load returns the entries stored for a scope, or an empty list.
func (s *FileStore) Load(key string) []string {
	return s.readAll()[key]
}

// Save replaces a scope's entries on disk.
func (s *FileStore) Save(key string, entries []string) {
	if s.path == "" {
		return
	}
	all := s.readAll()
	all[key] = entries

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.logger.Warn("create history directory", "error", err)
		return
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		s.logger.Warn("marshal history", "error", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Warn("write history", "error", err)
	}
}

func (s *FileStore) readAll() map[string][]string {
	all := map[string][]string{}
	if s.path == "" {
		return all
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return all
	}
	if err := json.Unmarshal(data, &all); err != nil {
		// Corrupt history is treated as empty rather than blocking
		// input.
		s.logger.Warn("parse history, starting fresh", "error", err)
		return map[string][]string{}
	}
	return all
}
