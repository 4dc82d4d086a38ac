// Package listquery implements the in-memory search/filter/sort/paginate
// pipeline shared by every record list screen.
package listquery

import (
	"sort"
	"strings"
	"time"
)

// Per-screen page sizes. Fixed constants, not user-configurable.
const (
	PageSizeCards   = 9
	PageSizeTable   = 15
	PageSizeCompact = 10
	PageSizeMini    = 3
)

// windowSize is the sliding window of page numbers shown in the controls.
const windowSize = 5

// Item is what a record must expose to be queryable.
type Item interface {
	// RegisteredAt orders the collection (descending).
	RegisteredAt() time.Time
	// SearchFields are the derived fields the free-text term matches
	// against (full name, sub-entity name, email).
	SearchFields() []string
	// CategoryKey groups the item for the category filter; empty when the
	// domain has no categories.
	CategoryKey() string
	// IsActive feeds the three-way status filter.
	IsActive() bool
}

// StatusFilter is the three-way status constraint.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// Options are the query inputs. A zero Category means no constraint; a zero
// Status means StatusAll. Page is 1-based and clamped into range.
type Options struct {
	SearchTerm string
	Category   string
	Status     StatusFilter
	Page       int
	PageSize   int
}

// Stats are aggregate counts computed from the category-filtered but NOT
// search-filtered set: they answer "how many of this category exist", while
// the filtered items answer "what's visible right now".
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// PageWindow describes the pagination controls for the current page.
type PageWindow struct {
	Pages            []int `json:"pages"`
	LeadingEllipsis  bool  `json:"leading_ellipsis"`
	TrailingEllipsis bool  `json:"trailing_ellipsis"`
	// FirstShortcut/LastShortcut are shown next to an ellipsis when the
	// window does not already include the first/last page. Zero means none.
	FirstShortcut int `json:"first_shortcut,omitempty"`
	LastShortcut  int `json:"last_shortcut,omitempty"`
}

// Page is the pagination state of a query result.
type Page struct {
	Current    int        `json:"current"`
	PerPage    int        `json:"per_page"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
	Window     PageWindow `json:"window"`
}

// Result is the queried view of a collection.
type Result[T Item] struct {
	Items []T   `json:"items"`
	Stats Stats `json:"stats"`
	Page  Page  `json:"page"`
}

// Query runs the full pipeline: stable sort descending by registration date,
// free-text filter, category filter, status filter, then pagination.
func Query[T Item](items []T, opts Options) Result[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = PageSizeCards
	}
	if opts.Status == "" {
		opts.Status = StatusAll
	}

	// Stable sort: ties keep their original relative order.
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RegisteredAt().After(sorted[j].RegisteredAt())
	})

	// Category first: stats respect the category filter but ignore the
	// search term.
	byCategory := sorted
	if opts.Category != "" {
		byCategory = filter(sorted, func(it T) bool {
			return it.CategoryKey() == opts.Category
		})
	}

	stats := Stats{Total: len(byCategory)}
	for _, it := range byCategory {
		if it.IsActive() {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}

	visible := byCategory
	if term := strings.ToLower(strings.TrimSpace(opts.SearchTerm)); term != "" {
		visible = filter(visible, func(it T) bool {
			for _, f := range it.SearchFields() {
				if strings.Contains(strings.ToLower(f), term) {
					return true
				}
			}
			return false
		})
	}

	switch opts.Status {
	case StatusActive:
		visible = filter(visible, func(it T) bool { return it.IsActive() })
	case StatusInactive:
		visible = filter(visible, func(it T) bool { return !it.IsActive() })
	}

	page := paginate(len(visible), opts.Page, opts.PageSize)
	start := (page.Current - 1) * page.PerPage
	end := start + page.PerPage
	if start > len(visible) {
		start = len(visible)
	}
	if end > len(visible) {
		end = len(visible)
	}

	return Result[T]{
		Items: visible[start:end],
		Stats: stats,
		Page:  page,
	}
}

func filter[T Item](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func paginate(total, page, perPage int) Page {
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Page{
		Current:    page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
		Window:     Window(totalPages, page),
	}
}

// Window computes the sliding-window-of-5 page numbers: all pages when five
// or fewer; pinned to the start for pages 1-3; pinned to the end for the
// last three pages; centered on the current page otherwise. An ellipsis and
// a first/last shortcut appear on each side the window does not reach.
func Window(totalPages, currentPage int) PageWindow {
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	var first, last int
	switch {
	case totalPages <= windowSize:
		first, last = 1, totalPages
	case currentPage <= 3:
		first, last = 1, windowSize
	case currentPage >= totalPages-2:
		first, last = totalPages-windowSize+1, totalPages
	default:
		first, last = currentPage-2, currentPage+2
	}

	pages := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		pages = append(pages, p)
	}

	w := PageWindow{Pages: pages}
	if first > 1 {
		w.LeadingEllipsis = true
		w.FirstShortcut = 1
	}
	if last < totalPages {
		w.TrailingEllipsis = true
		w.LastShortcut = totalPages
	}
	return w
}
