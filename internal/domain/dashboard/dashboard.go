// Package dashboard renders every view of the dashboard from one set of
// parameters. Render is pure: the same snapshot and parameters always give
// the same result, so callers can cache it.
package dashboard

import (
	"github.com/okian/babynames/internal/domain/chart"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
)

// Snapshot is the loaded data a render reads from.
type Snapshot interface {
	Table() *model.Table
	OneHitWonders() *query.OneHitWonderSet
}

// Params are the user inputs. Zero values fall back to Defaults.
type Params struct {
	Name    string    `json:"name"`
	Year    int       `json:"year"`
	TopK    int       `json:"top_k"`
	Sex     model.Sex `json:"sex"`
	From    int       `json:"from"`
	To      int       `json:"to"`
	Preview int       `json:"preview"`
}

// Defaults are used for every unset parameter.
type Defaults struct {
	Year    int
	From    int
	To      int
	Sex     model.Sex
	TopK    int
	Preview int
}

// StandardDefaults mirror the initial state of the dashboard widgets.
func StandardDefaults() Defaults {
	return Defaults{Year: 2000, From: 2000, To: 2023, Sex: model.Female, TopK: 10, Preview: 10}
}

// Resolve fills unset fields from d. Negative limits are kept; Render
// rejects them with query.ErrInvalidLimit.
func (p Params) Resolve(d Defaults) Params {
	if p.Year == 0 {
		p.Year = d.Year
	}
	if p.TopK == 0 {
		p.TopK = d.TopK
	}
	if p.Sex == "" {
		p.Sex = d.Sex
	}
	if p.From == 0 {
		p.From = d.From
	}
	if p.To == 0 {
		p.To = d.To
	}
	if p.Preview == 0 {
		p.Preview = d.Preview
	}
	return p
}

// NameView is the name search panel.
type NameView struct {
	Series query.NameSeries `json:"series"`
	Chart  chart.Config     `json:"chart"`
}

// YearView is the year panel.
type YearView struct {
	Summary query.YearSummary `json:"summary"`
	Chart   chart.Config      `json:"chart"`
}

// Result is everything the dashboard shows for one set of parameters.
type Result struct {
	Params        Params                 `json:"params"`
	Years         []int                  `json:"years"`
	Name          NameView               `json:"name"`
	Year          YearView               `json:"year"`
	Filter        query.FilterSummary    `json:"filter"`
	OneHitWonders query.OneHitWonderPage `json:"one_hit_wonders"`
}

// Render resolves p against d and runs every query.
func Render(s Snapshot, p Params, d Defaults) (Result, error) {
	p = p.Resolve(d)
	t := s.Table()

	year, err := query.ForYear(t, query.YearQuery{Year: p.Year, K: p.TopK, Sex: p.Sex})
	if err != nil {
		return Result{}, err
	}
	filter, err := query.Filter(t, query.FilterQuery{Sex: p.Sex, From: p.From, To: p.To})
	if err != nil {
		return Result{}, err
	}
	ohw, err := s.OneHitWonders().Page(p.Preview)
	if err != nil {
		return Result{}, err
	}

	series := query.ByName(t, p.Name)
	return Result{
		Params:        p,
		Years:         t.Years(),
		Name:          NameView{Series: series, Chart: chart.NameTrend(series)},
		Year:          YearView{Summary: year, Chart: chart.TopNames(year)},
		Filter:        filter,
		OneHitWonders: ohw,
	}, nil
}
