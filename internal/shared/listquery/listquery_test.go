package listquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	name     string
	email    string
	category string
	active   bool
	regDate  time.Time
}

func (r record) RegisteredAt() time.Time { return r.regDate }
func (r record) SearchFields() []string  { return []string{r.name, r.email} }
func (r record) CategoryKey() string     { return r.category }
func (r record) IsActive() bool          { return r.active }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestQuerySortsDescendingByDate(t *testing.T) {
	items := []record{
		{name: "Ana", regDate: day("2024-01-01")},
		{name: "Beto", regDate: day("2024-06-01")},
	}

	res := Query(items, Options{})
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Beto", res.Items[0].name)
	assert.Equal(t, "Ana", res.Items[1].name)
}

func TestQuerySortIsStableOnTies(t *testing.T) {
	same := day("2024-03-01")
	items := []record{
		{name: "First", regDate: same},
		{name: "Second", regDate: same},
		{name: "Third", regDate: same},
	}

	res := Query(items, Options{})
	require.Len(t, res.Items, 3)
	assert.Equal(t, "First", res.Items[0].name)
	assert.Equal(t, "Second", res.Items[1].name)
	assert.Equal(t, "Third", res.Items[2].name)
}

func TestQuerySearchIgnoredByStats(t *testing.T) {
	items := []record{
		{name: "Ana", regDate: day("2024-01-01"), active: true},
		{name: "Beto", regDate: day("2024-06-01")},
	}

	res := Query(items, Options{SearchTerm: "ana"})
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ana", res.Items[0].name)

	// Search narrows the visible items but never the stats.
	assert.Equal(t, 2, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Active)
	assert.Equal(t, 1, res.Stats.Inactive)
}

func TestQueryCategoryFilterNarrowsStats(t *testing.T) {
	items := []record{
		{name: "Ana", category: "crafts", active: true, regDate: day("2024-01-01")},
		{name: "Beto", category: "food", active: true, regDate: day("2024-02-01")},
		{name: "Carla", category: "crafts", regDate: day("2024-03-01")},
	}

	res := Query(items, Options{Category: "crafts"})
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 2, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Active)
	assert.Equal(t, 1, res.Stats.Inactive)
}

func TestQuerySearchMatchesAnyDerivedField(t *testing.T) {
	items := []record{
		{name: "Ana Gomez", email: "ana@example.org", regDate: day("2024-01-01")},
		{name: "Beto Diaz", email: "beto@example.org", regDate: day("2024-02-01")},
	}

	// Substring containment, case-insensitive, OR across fields.
	res := Query(items, Options{SearchTerm: "EXAMPLE.ORG"})
	assert.Len(t, res.Items, 2)

	res = Query(items, Options{SearchTerm: "gomez"})
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ana Gomez", res.Items[0].name)
}

func TestQueryStatusFilter(t *testing.T) {
	items := []record{
		{name: "Ana", active: true, regDate: day("2024-01-01")},
		{name: "Beto", regDate: day("2024-02-01")},
	}

	res := Query(items, Options{Status: StatusActive})
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ana", res.Items[0].name)

	res = Query(items, Options{Status: StatusInactive})
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Beto", res.Items[0].name)

	res = Query(items, Options{Status: StatusAll})
	assert.Len(t, res.Items, 2)
}

func TestQueryPagination(t *testing.T) {
	items := make([]record, 20)
	for i := range items {
		items[i] = record{name: "r", regDate: day("2024-01-01").AddDate(0, 0, i)}
	}

	res := Query(items, Options{Page: 1, PageSize: PageSizeCards})
	assert.Len(t, res.Items, 9)
	assert.Equal(t, 3, res.Page.TotalPages)
	assert.Equal(t, 20, res.Page.TotalItems)

	res = Query(items, Options{Page: 3, PageSize: PageSizeCards})
	assert.Len(t, res.Items, 2)

	// Out-of-range pages clamp instead of returning an empty view.
	res = Query(items, Options{Page: 99, PageSize: PageSizeCards})
	assert.Equal(t, 3, res.Page.Current)
	assert.Len(t, res.Items, 2)
}

func TestWindowAllPagesWhenFiveOrFewer(t *testing.T) {
	w := Window(4, 2)
	assert.Equal(t, []int{1, 2, 3, 4}, w.Pages)
	assert.False(t, w.LeadingEllipsis)
	assert.False(t, w.TrailingEllipsis)
}

func TestWindowPinnedToStart(t *testing.T) {
	w := Window(10, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, w.Pages)
	assert.False(t, w.LeadingEllipsis)
	assert.Zero(t, w.FirstShortcut)
	assert.True(t, w.TrailingEllipsis)
	assert.Equal(t, 10, w.LastShortcut)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, Window(10, 3).Pages)
}

func TestWindowPinnedToEnd(t *testing.T) {
	w := Window(10, 10)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, w.Pages)
	assert.True(t, w.LeadingEllipsis)
	assert.Equal(t, 1, w.FirstShortcut)
	assert.False(t, w.TrailingEllipsis)
	assert.Zero(t, w.LastShortcut)

	assert.Equal(t, []int{6, 7, 8, 9, 10}, Window(10, 8).Pages)
}

func TestWindowCentered(t *testing.T) {
	w := Window(10, 5)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, w.Pages)
	assert.True(t, w.LeadingEllipsis)
	assert.True(t, w.TrailingEllipsis)
	assert.Equal(t, 1, w.FirstShortcut)
	assert.Equal(t, 10, w.LastShortcut)
}
