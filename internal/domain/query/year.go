package query

import (
	"fmt"
	"sort"

	"github.com/okian/babynames/internal/domain/model"
)

// YearQuery selects one year, optionally one sex, and the ranking depth.
// K == 0 keeps every name.
type YearQuery struct {
	Year int
	K    int
	Sex  model.Sex
}

// RankedName is a record with its 1-based position in the ranking.
type RankedName struct {
	Rank int `json:"rank"`
	model.Record
}

// SexSummary describes one sex within a year.
type SexSummary struct {
	Sex           model.Sex `json:"sex"`
	DistinctNames int       `json:"distinct_names"`
	TotalCount    int64     `json:"total_count"`
	TopName       string    `json:"top_name"`
	TopCount      int64     `json:"top_count"`
}

// YearSummary is the ranked names of a year plus a per-sex summary.
type YearSummary struct {
	Year   int          `json:"year"`
	Sex    model.Sex    `json:"sex,omitempty"`
	K      int          `json:"k"`
	Top    []RankedName `json:"top"`
	Unique []SexSummary `json:"unique"`
}

// Empty reports whether the year has no records.
func (s YearSummary) Empty() bool { return len(s.Unique) == 0 }

// ForYear ranks the year's records by count descending; equal counts keep
// table order. The summary always covers both sexes regardless of q.Sex.
func ForYear(t *model.Table, q YearQuery) (YearSummary, error) {
	if q.K < 0 {
		return YearSummary{}, fmt.Errorf("%w: k=%d", ErrInvalidLimit, q.K)
	}
	out := YearSummary{Year: q.Year, Sex: q.Sex, K: q.K, Top: []RankedName{}, Unique: []SexSummary{}}
	if !t.HasYear(q.Year) {
		return out, nil
	}

	type acc struct {
		names map[string]struct{}
		total int64
		top   model.Record
		seen  bool
	}
	bySex := make(map[model.Sex]*acc)

	var ranked []model.Record
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		if r.Year != q.Year {
			continue
		}

		a := bySex[r.Sex]
		if a == nil {
			a = &acc{names: make(map[string]struct{})}
			bySex[r.Sex] = a
		}
		a.names[r.Name] = struct{}{}
		a.total += r.Count
		if !a.seen || r.Count > a.top.Count {
			a.top, a.seen = r, true
		}

		if q.Sex == "" || r.Sex == q.Sex {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if q.K > 0 && len(ranked) > q.K {
		ranked = ranked[:q.K]
	}
	for i, r := range ranked {
		out.Top = append(out.Top, RankedName{Rank: i + 1, Record: r})
	}

	for _, sex := range model.Sexes {
		a, ok := bySex[sex]
		if !ok {
			continue
		}
		out.Unique = append(out.Unique, SexSummary{
			Sex:           sex,
			DistinctNames: len(a.names),
			TotalCount:    a.total,
			TopName:       a.top.Name,
			TopCount:      a.top.Count,
		})
	}
	return out, nil
}
