package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/inkfold/inkfold/internal/memory"
)

// NewRouter creates the chi router with all routes and middleware.
func NewRouter(db *memory.DB, svc *memory.Service, apiKey string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(db)
	noteH := NewNoteHandler(svc)
	workspaceH := NewWorkspaceHandler(svc)

	// Unauthenticated routes
	r.Get("/health", healthH.Health)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteH.List)
			r.Post("/", noteH.Store)
			r.Post("/search", noteH.Search)
			r.Delete("/{id}", noteH.Delete)
		})

		r.Get("/workspaces", workspaceH.List)
	})

	return r
}
