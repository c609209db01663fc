package helpers

import (
	"net/http"
	"net/url"
	"strconv"

	"healthconsultant/internal/domain"
)

// Pagination query parameter defaults and limits. The consultation API
// refuses page sizes above MaxPageSize.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// ParsePagination reads page and page_size from the request query string,
// clamps them to valid ranges, and returns domain.PaginationParams.
// Invalid or missing values fall back to defaults; defaultSize <= 0 means DefaultPageSize.
func ParsePagination(r *http.Request, defaultSize int) domain.PaginationParams {
	page := DefaultPage
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	pageSize := min(defaultSize, MaxPageSize)
	if s := r.URL.Query().Get("page_size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			pageSize = min(v, MaxPageSize)
		}
	}
	return domain.PaginationParams{Page: page, PageSize: pageSize}
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// Window lists the page markers a client should render, ellipses included.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	Total       int                `json:"total"`
	TotalPages  int                `json:"total_pages"`
	Window      domain.DisplayPlan `json:"window" swaggertype:"array,object"`
	HasPrevious bool               `json:"has_previous"`
	HasNext     bool               `json:"has_next"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page size, and total count.
// TotalPages is computed as ceiling(total / pageSize); if pageSize is 0, TotalPages is 0.
func NewPaginationMeta(page, pageSize, total, neighborRadius int) PaginationMeta {
	totalPages := domain.TotalPages(total, pageSize)
	controls := domain.NewPageControls(page, totalPages, neighborRadius)
	return PaginationMeta{
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		TotalPages:  totalPages,
		Window:      controls.Plan,
		HasPrevious: controls.HasPrevious,
		HasNext:     controls.HasNext,
	}
}

// PageLink returns the URL for page n of the listing at base, keeping every
// other query parameter (filters, page_size) as it is.
func PageLink(base *url.URL, n int) string {
	q := base.Query()
	q.Set("page", strconv.Itoa(n))
	u := url.URL{Path: base.Path, RawQuery: q.Encode()}
	return u.String()
}

// PageLinker returns a PageLink bound to base, for use as a navigation sink.
func PageLinker(base *url.URL) func(n int) string {
	b := *base
	return func(n int) string { return PageLink(&b, n) }
}
