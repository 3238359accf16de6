// Package chart turns query results into declarative chart configurations.
// It does not draw anything; the presentation layer decides how.
package chart

import (
	"fmt"
	"sort"

	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
)

// Chart types.
const (
	TypeLine = "line"
	TypeBar  = "bar"
)

// Config describes one chart.
type Config struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	XAxis      string   `json:"x_axis"`
	YAxis      string   `json:"y_axis"`
	ShowLegend bool     `json:"show_legend"`
	Series     []Series `json:"series"`
}

// Series is one coloured line or bar group.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Point is one datum. X is the year for trends and the rank for bars.
type Point struct {
	X     int     `json:"x"`
	Label string  `json:"label"`
	Y     float64 `json:"y"`
}

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

var sexColors = map[model.Sex]string{
	model.Female: "#EC4899",
	model.Male:   "#06B6D4",
}

// ColorFor returns the fixed colour of a sex, falling back to the palette.
func ColorFor(s model.Sex, i int) string {
	if c, ok := sexColors[s]; ok {
		return c
	}
	return defaultColors[i%len(defaultColors)]
}

// Empty reports whether the chart has nothing to draw.
func (c Config) Empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// Bounds returns the X range and the largest Y over every series.
func (c Config) Bounds() (minX, maxX int, maxY float64) {
	first := true
	for _, s := range c.Series {
		for _, p := range s.Points {
			if first {
				minX, maxX, first = p.X, p.X, false
			}
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
			maxY = max(maxY, p.Y)
		}
	}
	return minX, maxX, maxY
}

// NameTrend plots count against year with one series per sex.
func NameTrend(s query.NameSeries) Config {
	cfg := Config{
		Type:       TypeLine,
		Title:      fmt.Sprintf("Births named %s by year", s.Name),
		XAxis:      "Year",
		YAxis:      "Count",
		ShowLegend: true,
		Series:     []Series{},
	}

	bySex := make(map[model.Sex][]Point)
	for _, r := range s.Rows {
		bySex[r.Sex] = append(bySex[r.Sex], Point{X: r.Year, Label: fmt.Sprint(r.Year), Y: float64(r.Count)})
	}
	for i, sex := range model.Sexes {
		pts, ok := bySex[sex]
		if !ok {
			continue
		}
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].X < pts[b].X })
		cfg.Series = append(cfg.Series, Series{Name: sex.Label(), Color: ColorFor(sex, i), Points: pts})
	}
	return cfg
}

// TopNames is a bar per ranked name, grouped into one series per sex so the
// bars keep the sex colour.
func TopNames(y query.YearSummary) Config {
	cfg := Config{
		Type:       TypeBar,
		Title:      fmt.Sprintf("Top names of %d", y.Year),
		XAxis:      "Name",
		YAxis:      "Count",
		ShowLegend: y.Sex == "",
		Series:     []Series{},
	}
	if y.Sex != "" {
		cfg.Title = fmt.Sprintf("Top %s names of %d", y.Sex.Label(), y.Year)
	}

	bySex := make(map[model.Sex][]Point)
	for _, r := range y.Top {
		bySex[r.Sex] = append(bySex[r.Sex], Point{X: r.Rank, Label: r.Name, Y: float64(r.Count)})
	}
	for i, sex := range model.Sexes {
		if pts, ok := bySex[sex]; ok {
			cfg.Series = append(cfg.Series, Series{Name: sex.Label(), Color: ColorFor(sex, i), Points: pts})
		}
	}
	return cfg
}
