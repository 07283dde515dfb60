// Package pagination computes which page controls a paginated list should show.
//
// Window collapses long page ranges into a fixed number of slots with at most one
// ellipsis on each side of the current page. State and Reduce model the
// navigation state of a paginated view as an immutable snapshot.
package pagination

import "strconv"

// MarkerKind discriminates the two kinds of Marker.
type MarkerKind string

const (
	// KindPage is a concrete, navigable page number.
	KindPage MarkerKind = "page"
	// KindEllipsis stands in for a collapsed range of pages. It is not navigable.
	KindEllipsis MarkerKind = "ellipsis"
)

// Marker is one displayable unit of a pagination control.
// The zero value is not a valid marker; use Page or Ellipsis.
type Marker struct {
	Kind MarkerKind
	// Number is the 1-based page number. Zero for ellipsis markers.
	Number int
}

// Page returns a page marker for page n.
func Page(n int) Marker { return Marker{Kind: KindPage, Number: n} }

// Ellipsis returns a truncation marker.
func Ellipsis() Marker { return Marker{Kind: KindEllipsis} }

// IsEllipsis reports whether m is a truncation marker.
func (m Marker) IsEllipsis() bool { return m.Kind == KindEllipsis }

func (m Marker) String() string {
	if m.IsEllipsis() {
		return "..."
	}
	return strconv.Itoa(m.Number)
}

// fixedSlots counts the first page, the last page, the current page and the
// two ellipsis positions.
const fixedSlots = 5

// Window returns the ordered markers to display for currentPage out of totalPages,
// showing siblingCount pages on each side of the current one.
//
// Callers normally skip rendering when totalPages <= 1. Window still answers:
// a single page yields [1] and zero or fewer pages yield an empty slice.
// A negative siblingCount is treated as zero and currentPage is clamped into
// [1, totalPages].
func Window(currentPage, totalPages, siblingCount int) []Marker {
	if totalPages <= 0 {
		return []Marker{}
	}
	siblingCount = max(siblingCount, 0)
	currentPage = min(max(currentPage, 1), totalPages)

	// Equivalent to totalPages <= 2*siblingCount+fixedSlots without overflowing.
	if siblingCount >= (totalPages-fixedSlots+1)/2 {
		return pageRange(1, totalPages)
	}

	leftSibling := max(currentPage-siblingCount, 1)
	rightSibling := currentPage + min(siblingCount, totalPages-currentPage)

	showLeftEllipsis := leftSibling > 2
	showRightEllipsis := rightSibling < totalPages-1

	// Pages shown on the open side when only one ellipsis is needed.
	edgeCount := 3 + 2*siblingCount

	switch {
	case !showLeftEllipsis && showRightEllipsis:
		out := pageRange(1, edgeCount)
		return append(out, Ellipsis(), Page(totalPages))
	case showLeftEllipsis && !showRightEllipsis:
		out := make([]Marker, 0, edgeCount+2)
		out = append(out, Page(1), Ellipsis())
		return append(out, pageRange(totalPages-edgeCount+1, totalPages)...)
	default:
		out := make([]Marker, 0, rightSibling-leftSibling+5)
		out = append(out, Page(1), Ellipsis())
		out = append(out, pageRange(leftSibling, rightSibling)...)
		return append(out, Ellipsis(), Page(totalPages))
	}
}

// pageRange returns page markers from..to inclusive. from must be at least 1.
func pageRange(from, to int) []Marker {
	if to < from {
		return []Marker{}
	}
	n := to - from + 1
	out := make([]Marker, 0, n)
	for i := range n {
		out = append(out, Page(from+i))
	}
	return out
}

// TotalPages returns the number of pages needed for totalCount items at pageSize per page.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
