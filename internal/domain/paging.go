package domain

const (
	// DefaultPageSize is used when no page size is requested.
	DefaultPageSize = 10
	// MaxPageSize caps the requested page size.
	MaxPageSize = 100
)

// PageRequest selects a page of a listing.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize returns the request with defaults applied and the size capped.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset of the requested page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of a listing plus its paging metadata.
type Page[T any] struct {
	Items       []T `json:"items"`
	TotalCount  int `json:"total_count"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// NewPage builds a page from items and metadata.
func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	return &Page[T]{
		Items:       items,
		TotalCount:  total,
		CurrentPage: req.Page,
		PageSize:    req.PageSize,
	}
}
