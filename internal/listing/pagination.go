package listing

// Pagination is the envelope every list response reports alongside its items.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// NewPagination computes the page envelope for a total item count.
// limit is always >= 1 by the time a Plan is compiled.
func NewPagination(page, limit, totalItems int) Pagination {
	totalPages := (totalItems + limit - 1) / limit

	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
	}
}
