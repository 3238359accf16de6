package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Table is the unified, normalised collection of records. It is immutable
// once built: accessors hand out copies.
type Table struct {
	id         string
	digest     uint64
	loadedAt   time.Time
	records    []Record
	years      []int
	yearTotals map[int]int64
}

// TableOption configures NewTable.
type TableOption func(*Table)

// WithDigest tags the table with the content hash of its source archive.
func WithDigest(d uint64) TableOption {
	return func(t *Table) { t.digest = d }
}

// WithLoadedAt overrides the load timestamp.
func WithLoadedAt(ts time.Time) TableOption {
	return func(t *Table) { t.loadedAt = ts }
}

// NewTable takes ownership of records; callers must not modify the slice
// afterwards.
func NewTable(records []Record, opts ...TableOption) *Table {
	t := &Table{
		id:         uuid.NewString(),
		loadedAt:   time.Now(),
		records:    records,
		yearTotals: make(map[int]int64),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, r := range records {
		if _, ok := t.yearTotals[r.Year]; !ok {
			t.years = append(t.years, r.Year)
		}
		t.yearTotals[r.Year] += r.Count
	}
	sort.Ints(t.years)
	return t
}

// ID is a random identifier assigned at construction.
func (t *Table) ID() string { return t.id }

// Digest is the source archive hash (0 when unknown).
func (t *Table) Digest() uint64 { return t.digest }

// LoadedAt reports when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// At returns a copy of the i-th record.
func (t *Table) At(i int) Record { return t.records[i] }

// Records returns a copy of all records in table order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Years returns the distinct years, ascending.
func (t *Table) Years() []int {
	out := make([]int, len(t.years))
	copy(out, t.years)
	return out
}

// HasYear reports whether any record belongs to year.
func (t *Table) HasYear(year int) bool {
	_, ok := t.yearTotals[year]
	return ok
}

// YearRange returns the first and last year, or ok=false for an empty table.
func (t *Table) YearRange() (first, last int, ok bool) {
	if len(t.years) == 0 {
		return 0, 0, false
	}
	return t.years[0], t.years[len(t.years)-1], true
}

// YearTotal sums counts across both sexes for year.
func (t *Table) YearTotal(year int) int64 {
	return t.yearTotals[year]
}
