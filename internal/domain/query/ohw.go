package query

import "github.com/okian/babynames/internal/domain/model"

// OneHitWonderSet holds every record whose (name, sex) occurs in exactly one
// distinct year of the table it was derived from.
type OneHitWonderSet struct {
	digest uint64
	rows   []model.Record
	keys   map[model.NameKey]struct{}
}

// OneHitWonders derives the set from the whole table.
func OneHitWonders(t *model.Table) *OneHitWonderSet {
	type span struct {
		year  int
		multi bool
	}
	spans := make(map[model.NameKey]*span)
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		s, ok := spans[r.Key()]
		switch {
		case !ok:
			spans[r.Key()] = &span{year: r.Year}
		case s.year != r.Year:
			s.multi = true
		}
	}

	set := &OneHitWonderSet{digest: t.Digest(), keys: make(map[model.NameKey]struct{})}
	for k, s := range spans {
		if !s.multi {
			set.keys[k] = struct{}{}
		}
	}
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		if _, ok := set.keys[r.Key()]; ok {
			set.rows = append(set.rows, r)
		}
	}
	return set
}

// Digest identifies the table the set was derived from.
func (s *OneHitWonderSet) Digest() uint64 { return s.digest }

// Total is the number of one-hit-wonder records.
func (s *OneHitWonderSet) Total() int { return len(s.rows) }

// Pairs is the number of distinct (name, sex) pairs.
func (s *OneHitWonderSet) Pairs() int { return len(s.keys) }

// Contains reports whether the (name, sex) pair is a one-hit wonder.
func (s *OneHitWonderSet) Contains(k model.NameKey) bool {
	_, ok := s.keys[k]
	return ok
}

// Rows returns a copy of every one-hit-wonder record in table order.
func (s *OneHitWonderSet) Rows() []model.Record {
	return s.Preview(len(s.rows))
}

// Preview returns a copy of the first n rows.
func (s *OneHitWonderSet) Preview(n int) []model.Record {
	if n > len(s.rows) {
		n = len(s.rows)
	}
	if n < 0 {
		n = 0
	}
	out := make([]model.Record, n)
	copy(out, s.rows[:n])
	return out
}

// OneHitWonderPage is the bounded view handed to the presentation layer.
type OneHitWonderPage struct {
	Total int            `json:"total"`
	Pairs int            `json:"pairs"`
	Rows  []model.Record `json:"rows"`
}

// Page returns the totals plus the first limit rows.
func (s *OneHitWonderSet) Page(limit int) (OneHitWonderPage, error) {
	if limit < 0 {
		return OneHitWonderPage{}, ErrInvalidLimit
	}
	return OneHitWonderPage{Total: s.Total(), Pairs: s.Pairs(), Rows: s.Preview(limit)}, nil
}
