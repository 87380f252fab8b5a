// Package filter holds the predicate primitives shared by every list view:
// case-insensitive search, categorical equality with an "all" sentinel,
// inclusive numeric ranges and set membership. All predicates are pure.
package filter

import (
	"strings"

	"github.com/samber/lo"
)

// All is the sentinel value that disables a categorical filter.
const All = "all"

// Search reports whether term occurs in any of fields, ignoring case.
// An empty (or blank) term matches every record.
func Search(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return lo.ContainsBy(fields, func(f string) bool {
		return strings.Contains(strings.ToLower(f), term)
	})
}

// Equal reports whether value matches the selected category. The empty
// string and All both disable the check.
func Equal(selected, value string) bool {
	if IsAll(selected) {
		return true
	}
	return selected == value
}

// IsAll reports whether a categorical selection is at its default.
func IsAll(selected string) bool {
	return selected == "" || selected == All
}

// AnyOf reports whether any of values is in selected. An empty selection is
// a vacuous match.
func AnyOf[T comparable](selected []T, values ...T) bool {
	if len(selected) == 0 {
		return true
	}
	return lo.Some(selected, values)
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Valid reports whether the range is ordered and inside [lo, hi].
func (r Range) Valid(lo, hi int) bool {
	return r.Min <= r.Max && r.Min >= lo && r.Max <= hi
}
