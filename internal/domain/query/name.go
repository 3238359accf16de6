// Package query holds the read-only aggregation queries over a unified table.
// Every function here is pure: same table and parameters, same answer.
package query

import "github.com/okian/babynames/internal/domain/model"

// NameRow is a matching record plus its share of all births that year.
type NameRow struct {
	model.Record
	YearShare float64 `json:"year_share"`
}

// NameSeries is every record of one name across years and sexes.
type NameSeries struct {
	Name  string    `json:"name"`
	Rows  []NameRow `json:"rows"`
	Total int64     `json:"total"`
}

// Empty reports whether nothing matched.
func (s NameSeries) Empty() bool { return len(s.Rows) == 0 }

// ByName returns the records whose name equals name exactly, in table order.
func ByName(t *model.Table, name string) NameSeries {
	out := NameSeries{Name: name, Rows: []NameRow{}}
	if name == "" {
		return out
	}
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		if r.Name != name {
			continue
		}
		row := NameRow{Record: r}
		if total := t.YearTotal(r.Year); total > 0 {
			row.YearShare = float64(r.Count) / float64(total)
		}
		out.Rows = append(out.Rows, row)
		out.Total += r.Count
	}
	return out
}
