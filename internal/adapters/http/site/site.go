// Package site serves the server-rendered dashboard page.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/okian/babynames/internal/adapters/http/api"
	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/pkg/logger"
)

// Error constants
var (
	ErrRender = errors.New("dashboard page render failed")
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var funcs = template.FuncMap{
	"comma": comma,
	"pct":   func(p float64) string { return humanize.FormatFloat("#,###.###", p*100) + "%" },
	"label": func(s model.Sex) string { return s.Label() },
}

func comma(v any) string {
	switch n := v.(type) {
	case int:
		return humanize.Comma(int64(n))
	case int64:
		return humanize.Comma(n)
	}
	return fmt.Sprint(v)
}

var pageTemplate = template.Must(template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html"))

// Dependencies required by the page.
type Dependencies interface {
	Defaults() dashboard.Defaults
	Dashboard(ctx context.Context, p dashboard.Params) (dashboard.Result, error)
}

// Handler renders the dashboard page.
type Handler struct {
	deps Dependencies
	log  logger.Logger
}

// NewHandler creates a new page handler.
func NewHandler(deps Dependencies, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{deps: deps, log: log}
}

// Register attaches the page and its assets to r.
func (h *Handler) Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/", api.MetricsMiddleware(h.HandleRoot, "site"))
	r.Handle("/static/*", http.FileServer(FS()))
}

// FS returns an http.FileSystem rooted above static/ so that /static/x maps
// to the embedded file.
func FS() http.FileSystem {
	return http.FS(staticFS)
}

// HandleRoot handles GET / with the same query parameters as /api/dashboard.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	const op = "site.root"
	view := page{Sexes: model.Sexes}

	status := http.StatusOK
	p, err := api.ParseParams(op, r)
	if err == nil {
		view.Result, err = h.deps.Dashboard(r.Context(), p)
	}
	if err != nil {
		status, _ = api.StatusFor(err)
		view.Error = err.Error()
		view.Result.Params = p.Resolve(h.deps.Defaults())
	} else {
		view.Trend = lineChart(view.Result.Name.Chart)
		view.Top = barChart(view.Result.Year.Chart)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		h.log.Error(r.Context(), "failed to render dashboard", logger.Error(err))
		http.Error(w, fmt.Sprintf("%v: %v", ErrRender, err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// page is the template view model.
type page struct {
	Result dashboard.Result
	Error  string
	Sexes  []model.Sex
	Trend  svgChart
	Top    svgChart
}
