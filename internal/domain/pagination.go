package domain

import "math"

// MaxPageSize is the upper bound on a page, equal to the ticket fetch window.
const MaxPageSize = 1000

// Default page sizes per endpoint family.
const (
	DefaultTicketPageSize = 20
	DefaultUserPageSize   = 50
)

// PageParams is a normalized page request.
type PageParams struct {
	Page  int
	Limit int
}

// NewPageParams clamps raw values: page below 1 becomes 1, limit below 1
// becomes defaultLimit, and limit is capped at MaxPageSize. Page is capped so
// that Offset cannot overflow.
func NewPageParams(page, limit, defaultLimit int) PageParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if maxPage := math.MaxInt/max(limit, 1) + 1; page > maxPage {
		page = maxPage
	}
	return PageParams{Page: page, Limit: limit}
}

// Offset returns the index of the first item on the page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the paginated envelope returned by search endpoints.
type Page[T any] struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Items []T `json:"items"`
}

// Paginate returns the slice [offset, offset+limit) of items, clipped to the
// collection. A page past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, p PageParams) []T {
	if p.Page < 1 || p.Limit < 1 || p.Page-1 > len(items)/p.Limit {
		return []T{}
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// NewPage paginates items and wraps the result in an envelope.
func NewPage[T any](items []T, p PageParams) Page[T] {
	return Page[T]{
		Page:  p.Page,
		Limit: p.Limit,
		Total: len(items),
		Items: Paginate(items, p),
	}
}
