package repo

import "math"

// DefaultPageSize is used when a caller asks for a non-positive page size.
const DefaultPageSize = 5

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps the page to 1, replaces a non-positive size with DefaultPageSize
// and caps the page so that Offset cannot overflow.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if maxPage := math.MaxInt / p.PageSize; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns ceil(total / size).
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
