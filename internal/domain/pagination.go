package domain

import (
	"encoding/json"
	"strconv"
)

// DefaultNeighborRadius is the number of pages shown on each side of the current page.
const DefaultNeighborRadius = 1

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Page is one page of items plus the total item count reported by the item source.
type Page[T any] struct {
	Items []T
	Total int
}

// TotalPages returns ceiling(total / pageSize), or 0 when pageSize is not positive.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// MarkerKind distinguishes page markers from ellipsis markers in a DisplayPlan.
type MarkerKind int

const (
	MarkerPage MarkerKind = iota
	MarkerEllipsis
)

// DisplayMarker is a single entry of a pagination control: a page number or an ellipsis.
type DisplayMarker struct {
	Kind MarkerKind
	Page int // zero for ellipsis markers
}

// PageMarker returns a marker for page n.
func PageMarker(n int) DisplayMarker { return DisplayMarker{Kind: MarkerPage, Page: n} }

// EllipsisMarker returns an ellipsis marker.
func EllipsisMarker() DisplayMarker { return DisplayMarker{Kind: MarkerEllipsis} }

// IsEllipsis reports whether m stands for elided pages.
func (m DisplayMarker) IsEllipsis() bool { return m.Kind == MarkerEllipsis }

// Key returns a stable render key. Pages are keyed by value; ellipses carry no
// page so they are keyed by their position in the plan.
func (m DisplayMarker) Key(position int) string {
	if m.IsEllipsis() {
		return "ellipsis-" + strconv.Itoa(position)
	}
	return "page-" + strconv.Itoa(m.Page)
}

func (m DisplayMarker) String() string {
	if m.IsEllipsis() {
		return "…"
	}
	return strconv.Itoa(m.Page)
}

type displayMarkerJSON struct {
	Type string `json:"type"`
	Page int    `json:"page,omitempty"`
}

// MarshalJSON encodes a marker as {"type":"page","page":n} or {"type":"ellipsis"}.
func (m DisplayMarker) MarshalJSON() ([]byte, error) {
	if m.IsEllipsis() {
		return json.Marshal(displayMarkerJSON{Type: "ellipsis"})
	}
	return json.Marshal(displayMarkerJSON{Type: "page", Page: m.Page})
}

// DisplayPlan is the ordered sequence of markers a pagination control renders.
type DisplayPlan []DisplayMarker

// Pages returns the page numbers of the plan in order, skipping ellipses.
func (p DisplayPlan) Pages() []int {
	pages := make([]int, 0, len(p))
	for _, m := range p {
		if !m.IsEllipsis() {
			pages = append(pages, m.Page)
		}
	}
	return pages
}

// ComputePageWindow returns the display plan for a pagination control.
//
// Pages 1 and totalPages are always present, as is every in-range page within
// neighborRadius of currentPage. Each run of omitted pages becomes a single
// ellipsis, except that a run no wider than max(1, neighborRadius) is shown
// page by page: an ellipsis never hides a single page, and a range small
// enough for the pinned pages and the neighborhood to meet is shown in full.
//
// A totalPages of 0 or 1 yields an empty plan. currentPage is expected to be
// already clamped to >= 1 by the caller; a value past totalPages is tolerated.
func ComputePageWindow(currentPage, totalPages, neighborRadius int) DisplayPlan {
	if totalPages <= 1 {
		return DisplayPlan{}
	}
	if neighborRadius < 0 {
		neighborRadius = 0
	}
	maxInline := max(1, neighborRadius)

	plan := make(DisplayPlan, 0, min(totalPages, 2*neighborRadius+5))
	last := 0 // last page emitted
	for p := 1; p <= totalPages; p++ {
		if p != 1 && p != totalPages && (p < currentPage-neighborRadius || p > currentPage+neighborRadius) {
			continue
		}
		if gap := p - last - 1; gap > maxInline {
			plan = append(plan, EllipsisMarker())
		} else {
			for q := last + 1; q < p; q++ {
				plan = append(plan, PageMarker(q))
			}
		}
		plan = append(plan, PageMarker(p))
		last = p
	}
	return plan
}

// PageControls is the render-ready state of a pagination control: the plan
// plus the previous/next affordances.
type PageControls struct {
	CurrentPage int         `json:"current_page"`
	TotalPages  int         `json:"total_pages"`
	Plan        DisplayPlan `json:"window"`
	HasPrevious bool        `json:"has_previous"`
	HasNext     bool        `json:"has_next"`
}

// NewPageControls computes the display plan and affordances in one call.
func NewPageControls(currentPage, totalPages, neighborRadius int) PageControls {
	return PageControls{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		Plan:        ComputePageWindow(currentPage, totalPages, neighborRadius),
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}

// Visible reports whether the control should render at all.
func (c PageControls) Visible() bool { return len(c.Plan) > 0 }

// PreviousPage returns the target of the "previous" affordance. A current
// page past the end steps back to the last page.
func (c PageControls) PreviousPage() int { return max(1, min(c.CurrentPage-1, c.TotalPages)) }

// NextPage returns the target of the "next" affordance.
func (c PageControls) NextPage() int { return min(c.TotalPages, c.CurrentPage+1) }
