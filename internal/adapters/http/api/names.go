package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/babynames/internal/domain/dashboard"
)

// NamesDependencies defines the interface for name lookups.
type NamesDependencies interface {
	NameSeries(ctx context.Context, name string) (dashboard.NameView, error)
}

// NamesHandler handles name series requests.
type NamesHandler struct {
	deps NamesDependencies
}

// NewNamesHandler creates a new names handler.
func NewNamesHandler(deps NamesDependencies) *NamesHandler {
	return &NamesHandler{deps: deps}
}

// HandleGetName handles GET /api/names/{name}. An unknown name is an empty
// series, not a 404.
func (h *NamesHandler) HandleGetName(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_name"
	view, err := h.deps.NameSeries(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeQueryError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
