package api

import (
	"net/http"

	"github.com/inkfold/inkfold/internal/memory"
)

type WorkspaceHandler struct {
	svc *memory.Service
}

func NewWorkspaceHandler(svc *memory.Service) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

// List handles GET /workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.svc.Workspaces()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": workspaces})
}
