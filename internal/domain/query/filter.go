package query

import (
	"fmt"

	"github.com/okian/babynames/internal/domain/model"
)

// FilterQuery restricts the table to one sex and an inclusive year range.
type FilterQuery struct {
	Sex  model.Sex
	From int
	To   int
}

// FilterSummary counts what falls inside a FilterQuery.
type FilterSummary struct {
	Sex         model.Sex `json:"sex"`
	From        int       `json:"from"`
	To          int       `json:"to"`
	UniqueNames int       `json:"unique_names"`
	TotalCount  int64     `json:"total_count"`
	Records     int       `json:"records"`
}

// Filter reports the distinct names and births for q.
func Filter(t *model.Table, q FilterQuery) (FilterSummary, error) {
	if _, ok := model.ParseSex(string(q.Sex)); !ok {
		return FilterSummary{}, fmt.Errorf("%w: %q", ErrInvalidSex, q.Sex)
	}
	if q.From > q.To {
		return FilterSummary{}, fmt.Errorf("%w: %d > %d", ErrInvalidRange, q.From, q.To)
	}

	out := FilterSummary{Sex: q.Sex, From: q.From, To: q.To}
	names := make(map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		if r.Sex != q.Sex || r.Year < q.From || r.Year > q.To {
			continue
		}
		names[r.Name] = struct{}{}
		out.TotalCount += r.Count
		out.Records++
	}
	out.UniqueNames = len(names)
	return out, nil
}
