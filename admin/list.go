package admin

// PageSize is the number of rows on one list page
const PageSize = 10

// Ellipsis marks a gap in the output of PageNumbers
const Ellipsis = -1

// ListState is what a list page remembers between renders: the search box,
// the filter dropdowns and the current page. Changing the search or a
// filter returns to the first page.
type ListState struct {
	Search  string
	Filters map[string]string
	Page    int
}

func NewListState() ListState {
	return ListState{Filters: map[string]string{}, Page: 1}
}

func (s *ListState) SetSearch(search string) {
	s.Search = search
	s.Page = 1
}

// SetFilter sets one filter; "" or "all" clears it
func (s *ListState) SetFilter(key, value string) {
	if s.Filters == nil {
		s.Filters = map[string]string{}
	}
	if value == "" || value == "all" {
		delete(s.Filters, key)
	} else {
		s.Filters[key] = value
	}
	s.Page = 1
}

func (s *ListState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// Matcher reports whether item passes the search text and filters
type Matcher[T any] func(item T, search string, filters map[string]string) bool

// Page is one slice of a filtered collection
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	TotalItems int
}

// Paginate cuts items into pages of size. A page past the end is empty.
func Paginate[T any](items []T, page, size int) Page[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = PageSize
	}
	total := len(items)
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		TotalPages: (total + size - 1) / size,
		TotalItems: total,
	}
	start := (page - 1) * size
	if start >= total {
		return p
	}
	end := min(start+size, total)
	p.Items = items[start:end]
	return p
}

// Filter keeps the items accepted by match; a nil matcher keeps everything
func Filter[T any](items []T, state ListState, match Matcher[T]) []T {
	if match == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item, state.Search, state.Filters) {
			out = append(out, item)
		}
	}
	return out
}

// FilterAndPaginate runs the list page pipeline over the full collection
func FilterAndPaginate[T any](items []T, state ListState, match Matcher[T]) Page[T] {
	return Paginate(Filter(items, state, match), state.Page, PageSize)
}

// PageNumbers lists the page buttons to show. Up to five pages are all
// shown; beyond that the first, the last and the neighbours of current,
// with Ellipsis for the gaps.
func PageNumbers(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if total <= 5 {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}
	current = max(1, min(current, total))

	pages := []int{1}
	from := max(2, current-1)
	to := min(total-1, current+1)
	if from > 2 {
		pages = append(pages, Ellipsis)
	}
	for p := from; p <= to; p++ {
		pages = append(pages, p)
	}
	if to < total-1 {
		pages = append(pages, Ellipsis)
	}
	return append(pages, total)
}
