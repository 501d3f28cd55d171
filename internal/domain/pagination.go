package domain

// PageRequest carries normalized pagination parameters.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps out-of-range values to the defaults: page >= 1,
// 1 <= pageSize <= 100 (default 10).
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Offset returns the row offset for the normalized request.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Paged is one page of results plus the total matching row count.
type Paged[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}
