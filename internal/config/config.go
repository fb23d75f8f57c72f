// Package config loads runtime settings from the environment. Every
// setting has a default so the binary runs without any configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Port   int
	DBPath string
	APIKey string

	// Composer
	MemoryServerURL string
	MemoryPageSize  int
	Workspace       string
	HistoryPath     string
	SkillDirs       []string
	PromptDirs      []string

	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            envInt("INKFOLD_PORT", 8972),
		DBPath:          envStr("INKFOLD_DB_PATH", defaultDataPath("notes.db")),
		APIKey:          envStr("INKFOLD_API_KEY", ""),
		MemoryServerURL: envStr("INKFOLD_SERVER_URL", "http://localhost:8972"),
		MemoryPageSize:  envInt("INKFOLD_MEMORY_PAGE_SIZE", 10),
		Workspace:       envStr("INKFOLD_WORKSPACE", defaultWorkspace()),
		HistoryPath:     envStr("INKFOLD_HISTORY_PATH", ""),
		SkillDirs:       envDirs("INKFOLD_SKILL_DIRS", defaultConfigPath("skills")),
		PromptDirs:      envDirs("INKFOLD_PROMPT_DIRS", defaultConfigPath("prompts")),
		LogLevel:        envStr("INKFOLD_LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("INKFOLD_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("INKFOLD_DB_PATH must not be empty")
	}
	if c.MemoryPageSize < 1 {
		return fmt.Errorf("INKFOLD_MEMORY_PAGE_SIZE must be positive, got %d", c.MemoryPageSize)
	}
	if c.Workspace == "" {
		return fmt.Errorf("INKFOLD_WORKSPACE must not be empty")
	}
	return nil
}

// defaultWorkspace is the current directory: notes scope to the project
// being worked in.
func defaultWorkspace() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

func defaultConfigPath(parts ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, ".config", "inkfold"}, parts...)...)
}

func defaultDataPath(file string) string {
	return defaultConfigPath(file)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDirs(key, fallback string) []string {
	if v := os.Getenv(key); v != "" {
		var dirs []string
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				dirs = append(dirs, p)
			}
		}
		if len(dirs) > 0 {
			return dirs
		}
	}
	if fallback == "" {
		return nil
	}
	return []string{fallback}
}
