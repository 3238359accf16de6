// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/babynames/internal/adapters/repository"
	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Defaults() dashboard.Defaults

	NameSeries(ctx context.Context, name string) (dashboard.NameView, error)
	YearSummary(ctx context.Context, year, k int, sex model.Sex) (dashboard.YearView, error)
	OneHitWonders(ctx context.Context, limit int) (query.OneHitWonderPage, error)
	Filter(ctx context.Context, sex model.Sex, from, to int) (query.FilterSummary, error)
	Dashboard(ctx context.Context, p dashboard.Params) (dashboard.Result, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	namesHandler     *NamesHandler
	yearsHandler     *YearsHandler
	ohwHandler       *OneHitWondersHandler
	filterHandler    *FilterHandler
	dashboardHandler *DashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		namesHandler:     NewNamesHandler(deps),
		yearsHandler:     NewYearsHandler(deps),
		ohwHandler:       NewOneHitWondersHandler(deps),
		filterHandler:    NewFilterHandler(deps),
		dashboardHandler: NewDashboardHandler(deps),
	}
}

// NewRouter returns a chi router with the standard middleware stack.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/names/{name}", MetricsMiddleware(s.namesHandler.HandleGetName, "names"))
		r.Get("/years/{year}", MetricsMiddleware(s.yearsHandler.HandleGetYear, "years"))
		r.Get("/one-hit-wonders", MetricsMiddleware(s.ohwHandler.HandleGetOneHitWonders, "one_hit_wonders"))
		r.Get("/filter", MetricsMiddleware(s.filterHandler.HandleGetFilter, "filter"))
		r.Get("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleGetDashboard, "dashboard"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// StatusFor maps a service error to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case isBadRequest(err):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, repository.ErrNotLoaded):
		return http.StatusServiceUnavailable, codeNotLoaded
	}
	return http.StatusInternalServerError, codeInternal
}

func writeQueryError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	writeError(w, status, code, err)
}

func isBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, query.ErrInvalidRange) ||
		errors.Is(err, query.ErrInvalidSex) ||
		errors.Is(err, query.ErrInvalidLimit)
}

// intParam reads an optional integer query parameter; absent is zero.
func intParam(op string, r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, WrapKind(op, ErrBadRequest, errors.New("invalid "+key+": "+strconv.Quote(raw)))
	}
	return n, nil
}

// sexParam reads the optional sex selector.
func sexParam(op string, r *http.Request) (model.Sex, error) {
	sex, err := query.ParseSexSelector(r.URL.Query().Get("sex"))
	if err != nil {
		return "", Wrap(op, err)
	}
	return sex, nil
}
