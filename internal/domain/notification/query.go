package notification

import (
	"github.com/panchakarma/manager/internal/platform/filter"
)

// Query is the inbox list state.
type Query struct {
	Search     string `json:"search"`
	Priority   string `json:"priority"`
	Category   string `json:"category"`
	UnreadOnly bool   `json:"unread_only"`
}

func DefaultQuery() Query {
	return Query{Priority: filter.All, Category: filter.All}
}

// Matches reports whether n passes every filter. Search covers the title,
// message and patient name.
func (q Query) Matches(n Notification) bool {
	return filter.Search(q.Search, n.Title, n.Message, n.Patient) &&
		filter.Equal(q.Priority, string(n.Priority)) &&
		filter.Equal(q.Category, n.Category) &&
		(!q.UnreadOnly || n.Unread)
}

func (q Query) ActiveCount() int {
	n := 0
	if !filter.IsAll(q.Priority) {
		n++
	}
	if !filter.IsAll(q.Category) {
		n++
	}
	if q.UnreadOnly {
		n++
	}
	return n
}
