// Package pagination turns a count of ordered items into a bounded page
// window. Requested page numbers are forgiving: anything non-numeric clamps
// to the first page and anything past the end clamps to the last page, so a
// hand-edited URL never produces a user-visible error.
package pagination

import "strconv"

// Pager describes one window over a collection of TotalItems items.
type Pager struct {
	Number     int // 1-based page number after clamping
	PageSize   int
	TotalItems int
	NumPages   int
}

// New builds a Pager for the raw requested page (usually the "page" query
// parameter). An empty collection still yields a single empty page.
func New(requested string, totalItems, pageSize int) Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}

	numPages := (totalItems + pageSize - 1) / pageSize
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(requested)
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Pager{
		Number:     number,
		PageSize:   pageSize,
		TotalItems: totalItems,
		NumPages:   numPages,
	}
}

// Offset is the number of items to skip when fetching this page.
func (p Pager) Offset() int {
	return (p.Number - 1) * p.PageSize
}

// Limit is the maximum number of items on this page.
func (p Pager) Limit() int {
	return p.PageSize
}

func (p Pager) HasPrevious() bool {
	return p.Number > 1
}

func (p Pager) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Pager) PreviousNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return p.Number
}

func (p Pager) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}
