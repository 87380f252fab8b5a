// Package view builds derived views: the ordered subset of a catalog that
// matches the current criteria, plus the summary counts shown next to it.
package view

import (
	"github.com/samber/lo"

	"github.com/panchakarma/manager/pkg/pagination"
)

// Result is a derived view over a catalog snapshot. Items keep catalog
// order; nothing is re-sorted.
type Result[T any] struct {
	Items         []T `json:"items"`
	Matching      int `json:"matching"`
	Total         int `json:"total"`
	Selected      int `json:"selected"`
	ActiveFilters int `json:"active_filters"`
}

// Build filters items with match. It is a pure function of its inputs and
// is recomputed on every call.
func Build[T any](items []T, match func(T) bool) Result[T] {
	matched := lo.Filter(items, func(item T, _ int) bool {
		return match(item)
	})
	if matched == nil {
		matched = []T{}
	}
	return Result[T]{
		Items:    matched,
		Matching: len(matched),
		Total:    len(items),
	}
}

// WithSelected sets the selected-record count.
func (r Result[T]) WithSelected(n int) Result[T] {
	r.Selected = n
	return r
}

// WithActiveFilters sets the active-filter badge value.
func (r Result[T]) WithActiveFilters(n int) Result[T] {
	r.ActiveFilters = n
	return r
}

// Facets returns the distinct non-empty keys of items in first-seen order.
func Facets[T any](items []T, key func(T) string) []string {
	keys := lo.Uniq(lo.FilterMap(items, func(item T, _ int) (string, bool) {
		k := key(item)
		return k, k != ""
	}))
	if keys == nil {
		return []string{}
	}
	return keys
}

// Count returns how many items satisfy pred.
func Count[T any](items []T, pred func(T) bool) int {
	return lo.CountBy(items, pred)
}

// Page is one window of a derived view. The counts still describe the
// whole view; only Items is cut down.
type Page[T any] struct {
	Result[T]
	Limit          int  `json:"limit"`
	Offset         int  `json:"offset"`
	HasMore        bool `json:"has_more"`
	HasPrevious    bool `json:"has_previous"`
	NextOffset     int  `json:"next_offset"`
	PreviousOffset int  `json:"previous_offset"`
}

// Paginate applies p to the view's items after filtering.
func Paginate[T any](r Result[T], p pagination.Params) Page[T] {
	r.Items = pagination.Page(r.Items, p)
	return Page[T]{
		Result:         r,
		Limit:          p.Limit,
		Offset:         p.Offset,
		HasMore:        p.HasNext(r.Matching),
		HasPrevious:    p.HasPrevious(),
		NextOffset:     p.NextOffset(),
		PreviousOffset: p.PreviousOffset(),
	}
}
