package dto

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// maxOffset keeps limit*(page-1) inside a 32-bit signed integer
	maxOffset = math.MaxInt32
)

// PaginationRequest selects one page of a listing. Page is 1-based.
type PaginationRequest struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
}

// WithDefaults fills zero values with the default page and limit
func (p PaginationRequest) WithDefaults() PaginationRequest {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// Validate enforces 0 < limit <= MaxLimit, page >= 1 and an offset that fits
// in maxOffset
func (p PaginationRequest) Validate() error {
	if p.Limit <= 0 || p.Limit > MaxLimit || p.Page < 1 {
		return ErrInvalidPagination
	}
	if p.Page-1 > maxOffset/p.Limit {
		return ErrInvalidPagination
	}
	return nil
}

// Offset is the number of records skipped before the page starts
func (p PaginationRequest) Offset() int {
	return p.Limit * (p.Page - 1)
}

// PaginationMeta describes the position of a page within the whole listing
type PaginationMeta struct {
	Limit      int   `json:"limit"`
	Page       int   `json:"page"`
	TotalPages int64 `json:"totalPages"`
	Total      int64 `json:"total"`
}

// PaginatedProducts is one page of products plus its metadata
type PaginatedProducts struct {
	Data []*ProductResponse `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}

// NewPaginationMeta computes totalPages as ceil(total / limit)
func NewPaginationMeta(p PaginationRequest, total int64) PaginationMeta {
	limit := int64(p.Limit)
	return PaginationMeta{
		Limit:      p.Limit,
		Page:       p.Page,
		TotalPages: (total + limit - 1) / limit,
		Total:      total,
	}
}
