package api

import (
	"context"
	"net/http"

	"github.com/okian/babynames/internal/domain/query"
)

// OneHitWondersDependencies defines the interface for one-hit-wonder pages.
type OneHitWondersDependencies interface {
	OneHitWonders(ctx context.Context, limit int) (query.OneHitWonderPage, error)
}

// OneHitWondersHandler handles one-hit-wonder requests.
type OneHitWondersHandler struct {
	deps OneHitWondersDependencies
}

// NewOneHitWondersHandler creates a new one-hit-wonders handler.
func NewOneHitWondersHandler(deps OneHitWondersDependencies) *OneHitWondersHandler {
	return &OneHitWondersHandler{deps: deps}
}

// HandleGetOneHitWonders handles GET /api/one-hit-wonders?limit=N.
func (h *OneHitWondersHandler) HandleGetOneHitWonders(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_one_hit_wonders"
	limit, err := intParam(op, r, "limit")
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if limit < 0 {
		writeQueryError(w, NewKind(op, query.ErrInvalidLimit))
		return
	}

	page, err := h.deps.OneHitWonders(r.Context(), limit)
	if err != nil {
		writeQueryError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}
