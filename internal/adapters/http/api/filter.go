package api

import (
	"context"
	"net/http"

	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
)

// FilterDependencies defines the interface for range filters.
type FilterDependencies interface {
	Defaults() dashboard.Defaults
	Filter(ctx context.Context, sex model.Sex, from, to int) (query.FilterSummary, error)
}

// FilterHandler handles sidebar filter requests.
type FilterHandler struct {
	deps FilterDependencies
}

// NewFilterHandler creates a new filter handler.
func NewFilterHandler(deps FilterDependencies) *FilterHandler {
	return &FilterHandler{deps: deps}
}

// HandleGetFilter handles GET /api/filter?sex=S&from=A&to=B. Missing
// parameters take the configured defaults.
func (h *FilterHandler) HandleGetFilter(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_filter"
	d := h.deps.Defaults()

	sex, err := sexParam(op, r)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if sex == "" {
		sex = d.Sex
	}
	from, err := intParam(op, r, "from")
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if from == 0 {
		from = d.From
	}
	to, err := intParam(op, r, "to")
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if to == 0 {
		to = d.To
	}

	summary, err := h.deps.Filter(r.Context(), sex, from, to)
	if err != nil {
		writeQueryError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
