package models

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPagination derives page counts from total. size must be positive.
func NewPagination(page, size, total int) *Pagination {
	pages := (total + size - 1) / size
	return &Pagination{
		Page:       page,
		PageSize:   size,
		TotalCount: total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}
