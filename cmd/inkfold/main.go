package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inkfold/inkfold/internal/api"
	"github.com/inkfold/inkfold/internal/client"
	"github.com/inkfold/inkfold/internal/config"
	"github.com/inkfold/inkfold/internal/history"
	"github.com/inkfold/inkfold/internal/memory"
	"github.com/inkfold/inkfold/internal/skills"
	"github.com/inkfold/inkfold/internal/tui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inkfold",
		Short: "Terminal composer with trigger autocomplete and workspace notes",
		Long: `inkfold is a terminal chat composer: / completes commands, @ attaches
workspace files, @@ searches workspace notes, $ inserts skill tags.
Sent messages are recallable per workspace with an inline ghost
completion for the most recent match.

Run "inkfold serve" to start the workspace note service the @@
trigger searches against.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComposer()
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the workspace note HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runComposer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal owns stdout; logs are discarded unless a debug file
	// is requested.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if path := os.Getenv("INKFOLD_DEBUG_LOG"); path != "" {
		if f, ferr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); ferr == nil {
			defer f.Close()
			logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel(cfg)}))
		}
	}

	hist := history.NewManager(history.NewFileStore(cfg.HistoryPath, logger))

	skillMetas, err := skills.ScanSkills(cfg.SkillDirs)
	if err != nil {
		logger.Warn("skill scan failed", "error", err)
	}
	promptMetas, err := skills.ScanPrompts(cfg.PromptDirs)
	if err != nil {
		logger.Warn("prompt scan failed", "error", err)
	}

	noteClient := client.NewMemoryClient(cfg.MemoryServerURL, cfg.APIKey)

	model := tui.New(tui.Options{
		Config:  cfg,
		History: hist,
		Prompts: skills.PromptCandidates(promptMetas),
		Skills:  skills.SkillCandidates(skillMetas),
		Catalog: tui.LoadCatalog(cfg.Workspace),
		Search:  noteClient.Search,
		Logger:  logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg)}))
	slog.SetDefault(logger)

	db, err := memory.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if !db.FTSEnabled() {
		logger.Warn("sqlite built without FTS5, note search degraded to substring scan",
			"hint", "rebuild with -tags sqlite_fts5")
	}

	svc := memory.NewService(memory.NewNoteStore(db), memory.NewWorkspaceStore(db), logger)
	router := api.NewRouter(db, svc, cfg.APIKey, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("note server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-done:
	}

	logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
	return nil
}

func logLevel(cfg *config.Config) slog.Level {
	switch cfg.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
