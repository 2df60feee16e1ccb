package transaction

// windowRadius is how many page numbers are shown on each side of the current page.
const windowRadius = 2

// TotalPages is ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}

	return (total + pageSize - 1) / pageSize
}

// ClampPage bounds page to [1, totalPages]. With no pages it returns 1.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}

	if page < 1 {
		page = 1
	}

	return page
}

// Window describes the page buttons of a pagination control.
type Window struct {
	Pages []int
	// First is set when page 1 is outside Pages and gets its own button.
	First bool
	// LeadingGap is set when an ellipsis separates First from Pages.
	LeadingGap  bool
	TrailingGap bool
	Last        bool
	Prev        bool
	Next        bool
}

// NewWindow returns the controls for page out of totalPages. A single page
// needs no controls and yields the zero Window.
func NewWindow(page, totalPages int) Window {
	if totalPages <= 1 {
		return Window{}
	}

	page = ClampPage(page, totalPages)

	start := max(1, page-windowRadius)
	end := min(totalPages, page+windowRadius)

	w := Window{
		Pages: make([]int, 0, end-start+1),
		Prev:  page > 1,
		Next:  page < totalPages,
	}

	for i := start; i <= end; i++ {
		w.Pages = append(w.Pages, i)
	}

	if start > 1 {
		w.First = true
		w.LeadingGap = start > 2
	}

	if end < totalPages {
		w.Last = true
		w.TrailingGap = end < totalPages-1
	}

	return w
}
