// Package normalize computes each record's share of its (year, sex) group.
package normalize

import "github.com/okian/babynames/internal/domain/model"

// Totals sums Count per (year, sex) group.
func Totals(records []model.Record) map[model.GroupKey]int64 {
	totals := make(map[model.GroupKey]int64)
	for i := range records {
		totals[records[i].Group()] += records[i].Count
	}
	return totals
}

// Apply sets Pct = Count / total(Year, Sex) on every record in place.
// Records of a group whose total is zero get Pct = 0. Pct is derived from
// Count alone, so applying twice yields the same values.
func Apply(records []model.Record) {
	totals := Totals(records)
	for i := range records {
		total := totals[records[i].Group()]
		if total == 0 {
			records[i].Pct = 0
			continue
		}
		records[i].Pct = float64(records[i].Count) / float64(total)
	}
}
