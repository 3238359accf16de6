package site

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/okian/babynames/internal/domain/chart"
)

const (
	chartWidth  = 640
	chartHeight = 260
	padLeft     = 64
	padRight    = 16
	padTop      = 16
	padBottom   = 40
	maxXTicks   = 6
)

// svgChart is a chart.Config projected onto SVG coordinates.
type svgChart struct {
	Title  string
	Width  int
	Height int
	Empty  bool
	Lines  []svgLine
	Bars   []svgBar
	XTicks []svgTick
	YTicks []svgTick
	Legend []svgLegend
}

type svgLine struct {
	Name   string
	Color  string
	Points string
}

type svgBar struct {
	X, Y, W, H float64
	Color      string
	Label      string
	Value      string
}

type svgTick struct {
	Pos   float64
	Label string
}

type svgLegend struct {
	Name  string
	Color string
}

func plotWidth() float64  { return chartWidth - padLeft - padRight }
func plotHeight() float64 { return chartHeight - padTop - padBottom }

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func newSVG(cfg chart.Config) svgChart {
	out := svgChart{Title: cfg.Title, Width: chartWidth, Height: chartHeight, Empty: cfg.Empty()}
	if cfg.ShowLegend {
		for _, s := range cfg.Series {
			out.Legend = append(out.Legend, svgLegend{Name: s.Name, Color: s.Color})
		}
	}
	return out
}

func scaleY(y, maxY float64) float64 {
	if maxY <= 0 {
		return round1(padTop + plotHeight())
	}
	return round1(padTop + plotHeight() - y/maxY*plotHeight())
}

func yTicks(maxY float64) []svgTick {
	ticks := make([]svgTick, 0, 3)
	for _, f := range []float64{0, 0.5, 1} {
		v := maxY * f
		ticks = append(ticks, svgTick{Pos: scaleY(v, maxY), Label: humanize.Comma(int64(v))})
	}
	return ticks
}

// lineChart projects a trend chart.
func lineChart(cfg chart.Config) svgChart {
	out := newSVG(cfg)
	if out.Empty {
		return out
	}
	minX, maxX, maxY := cfg.Bounds()

	scaleX := func(x int) float64 {
		if maxX == minX {
			return round1(padLeft + plotWidth()/2)
		}
		return round1(padLeft + float64(x-minX)/float64(maxX-minX)*plotWidth())
	}

	for _, s := range cfg.Series {
		pts := make([]string, 0, len(s.Points))
		for _, p := range s.Points {
			pts = append(pts, fmt.Sprintf("%g,%g", scaleX(p.X), scaleY(p.Y, maxY)))
		}
		out.Lines = append(out.Lines, svgLine{Name: s.Name, Color: s.Color, Points: strings.Join(pts, " ")})
	}

	step := max(1, (maxX-minX)/(maxXTicks-1))
	for x := minX; x <= maxX; x += step {
		out.XTicks = append(out.XTicks, svgTick{Pos: scaleX(x), Label: fmt.Sprint(x)})
	}
	out.YTicks = yTicks(maxY)
	return out
}

// barChart projects a ranked bar chart; bars are ordered by rank.
func barChart(cfg chart.Config) svgChart {
	out := newSVG(cfg)
	if out.Empty {
		return out
	}
	_, _, maxY := cfg.Bounds()

	type bar struct {
		p     chart.Point
		color string
	}
	var bars []bar
	for _, s := range cfg.Series {
		for _, p := range s.Points {
			bars = append(bars, bar{p: p, color: s.Color})
		}
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].p.X < bars[j].p.X })

	band := plotWidth() / float64(len(bars))
	for i, b := range bars {
		top := scaleY(b.p.Y, maxY)
		x := round1(padLeft + float64(i)*band + band*0.1)
		out.Bars = append(out.Bars, svgBar{
			X:     x,
			Y:     top,
			W:     round1(band * 0.8),
			H:     round1(padTop + plotHeight() - top),
			Color: b.color,
			Label: b.p.Label,
			Value: humanize.Comma(int64(b.p.Y)),
		})
		out.XTicks = append(out.XTicks, svgTick{Pos: round1(x + band*0.4), Label: b.p.Label})
	}
	out.YTicks = yTicks(maxY)
	return out
}
