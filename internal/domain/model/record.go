// Package model contains domain models passed between layers.
package model

// Sex is the categorical sex code recorded in the source files.
type Sex string

// Known sex codes.
const (
	Female Sex = "F"
	Male   Sex = "M"
)

// Sexes lists the known codes in display order.
var Sexes = []Sex{Female, Male}

// ParseSex accepts exactly the codes used by the source files.
func ParseSex(code string) (Sex, bool) {
	switch Sex(code) {
	case Female, Male:
		return Sex(code), true
	}
	return "", false
}

// Label returns a human readable name for the code.
func (s Sex) Label() string {
	switch s {
	case Female:
		return "Female"
	case Male:
		return "Male"
	}
	return string(s)
}

// Record is one row of the unified table.
type Record struct {
	Name  string  `json:"name"`
	Sex   Sex     `json:"sex"`
	Count int64   `json:"count"`
	Year  int     `json:"year"` // from the source filename, never the row
	Pct   float64 `json:"pct"`  // share of its (Year, Sex) group
}

// GroupKey identifies the (year, sex) group used as the pct denominator.
type GroupKey struct {
	Year int
	Sex  Sex
}

// Group returns the record's normalisation group.
func (r Record) Group() GroupKey {
	return GroupKey{Year: r.Year, Sex: r.Sex}
}

// NameKey identifies a name independent of year.
type NameKey struct {
	Name string
	Sex  Sex
}

// Key returns the record's (name, sex) identity.
func (r Record) Key() NameKey {
	return NameKey{Name: r.Name, Sex: r.Sex}
}
