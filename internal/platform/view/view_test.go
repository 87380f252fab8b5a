package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panchakarma/manager/pkg/pagination"
)

type row struct {
	id   int
	kind string
}

var rows = []row{
	{1, "alerts"}, {2, "reports"}, {3, "alerts"}, {4, ""}, {5, "feedback"},
}

func TestBuild_IdentityWhenEverythingMatches(t *testing.T) {
	r := Build(rows, func(row) bool { return true })
	assert.Equal(t, rows, r.Items)
	assert.Equal(t, len(rows), r.Matching)
	assert.Equal(t, len(rows), r.Total)
}

func TestBuild_KeepsCatalogOrder(t *testing.T) {
	r := Build(rows, func(x row) bool { return x.id%2 == 1 })
	require.Len(t, r.Items, 3)
	assert.Equal(t, []int{1, 3, 5}, []int{r.Items[0].id, r.Items[1].id, r.Items[2].id})
	assert.Equal(t, 3, r.Matching)
	assert.Equal(t, 5, r.Total)
}

func TestBuild_EmptyResultIsNotNil(t *testing.T) {
	r := Build(rows, func(row) bool { return false })
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}

func TestResult_Counts(t *testing.T) {
	r := Build(rows, func(row) bool { return true }).WithSelected(2).WithActiveFilters(1)
	assert.Equal(t, 2, r.Selected)
	assert.Equal(t, 1, r.ActiveFilters)
}

func TestFacets(t *testing.T) {
	got := Facets(rows, func(x row) string { return x.kind })
	assert.Equal(t, []string{"alerts", "reports", "feedback"}, got)
	assert.Equal(t, []string{}, Facets([]row{}, func(x row) string { return x.kind }))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 2, Count(rows, func(x row) bool { return x.kind == "alerts" }))
}

func TestPaginate_CutsItemsKeepsCounts(t *testing.T) {
	r := Build(rows, func(row) bool { return true }).WithActiveFilters(2)
	p := Paginate(r, pagination.Params{Limit: 2, Offset: 2})

	require.Len(t, p.Items, 2)
	assert.Equal(t, 3, p.Items[0].id)
	assert.Equal(t, 5, p.Matching)
	assert.Equal(t, 2, p.ActiveFilters)
	assert.True(t, p.HasMore)
	assert.True(t, p.HasPrevious)
	assert.Equal(t, 4, p.NextOffset)
	assert.Equal(t, 0, p.PreviousOffset)

	last := Paginate(r, pagination.Params{Limit: 2, Offset: 4})
	assert.Len(t, last.Items, 1)
	assert.False(t, last.HasMore)
	assert.Equal(t, 2, last.PreviousOffset)

	first := Paginate(r, pagination.Params{Limit: 2})
	assert.False(t, first.HasPrevious)
	assert.Equal(t, 2, first.NextOffset)
}
