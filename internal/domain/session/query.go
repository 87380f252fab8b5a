package session

import (
	"github.com/panchakarma/manager/internal/platform/filter"
)

// Query is the session list state: search box plus status and therapy
// selectors.
type Query struct {
	Search  string `json:"search"`
	Status  string `json:"status"`
	Therapy string `json:"therapy"`
}

func DefaultQuery() Query {
	return Query{Status: filter.All, Therapy: filter.All}
}

// Matches reports whether s passes the search and both selectors. Search
// covers the patient name and therapy.
func (q Query) Matches(s Session) bool {
	return filter.Search(q.Search, s.PatientName, s.TherapyType) &&
		filter.Equal(q.Status, string(s.Status)) &&
		filter.Equal(q.Therapy, s.TherapyType)
}

// ActiveCount counts the selectors that differ from all.
func (q Query) ActiveCount() int {
	n := 0
	if !filter.IsAll(q.Status) {
		n++
	}
	if !filter.IsAll(q.Therapy) {
		n++
	}
	return n
}
