package api

import (
	"net/http"

	"github.com/inkfold/inkfold/internal/memory"
)

type HealthHandler struct {
	db *memory.DB
}

func NewHealthHandler(db *memory.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthResponse struct {
	Status    string `json:"status"`
	NoteCount int    `json:"noteCount"`
	Error     string `json:"error,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}

	count, err := h.db.NoteCount()
	if err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.NoteCount = count

	writeJSON(w, http.StatusOK, resp)
}
