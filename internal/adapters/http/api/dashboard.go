package api

import (
	"context"
	"net/http"

	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/query"
)

// DashboardDependencies defines the interface for full renders.
type DashboardDependencies interface {
	Dashboard(ctx context.Context, p dashboard.Params) (dashboard.Result, error)
}

// DashboardHandler handles full dashboard renders.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleGetDashboard handles GET /api/dashboard with every widget input as
// a query parameter.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	p, err := ParseParams(op, r)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	res, err := h.deps.Dashboard(r.Context(), p)
	if err != nil {
		writeQueryError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ParseParams reads name, year, k, sex, from, to and limit from the query
// string. Absent values stay zero for the service to default.
func ParseParams(op string, r *http.Request) (dashboard.Params, error) {
	var (
		p   dashboard.Params
		err error
	)
	p.Name = r.URL.Query().Get("name")
	if p.Sex, err = sexParam(op, r); err != nil {
		return p, err
	}
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"year", &p.Year},
		{"k", &p.TopK},
		{"from", &p.From},
		{"to", &p.To},
		{"limit", &p.Preview},
	} {
		if *f.dst, err = intParam(op, r, f.key); err != nil {
			return p, err
		}
	}
	if p.TopK < 0 || p.Preview < 0 {
		return p, NewKind(op, query.ErrInvalidLimit)
	}
	return p, nil
}
