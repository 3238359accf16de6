package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
)

// YearsDependencies defines the interface for year summaries.
type YearsDependencies interface {
	YearSummary(ctx context.Context, year, k int, sex model.Sex) (dashboard.YearView, error)
}

// YearsHandler handles year summary requests.
type YearsHandler struct {
	deps YearsDependencies
}

// NewYearsHandler creates a new years handler.
func NewYearsHandler(deps YearsDependencies) *YearsHandler {
	return &YearsHandler{deps: deps}
}

// HandleGetYear handles GET /api/years/{year}?k=K&sex=S.
func (h *YearsHandler) HandleGetYear(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_year"
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeQueryError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	k, err := intParam(op, r, "k")
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if k < 0 {
		writeQueryError(w, NewKind(op, query.ErrInvalidLimit))
		return
	}
	sex, err := sexParam(op, r)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	view, err := h.deps.YearSummary(r.Context(), year, k, sex)
	if err != nil {
		writeQueryError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
