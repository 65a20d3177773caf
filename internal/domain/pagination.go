package domain

// PaginatedData is one page of a filtered listing plus the metadata the UI needs.
type PaginatedData[T any] struct {
	Items           []T  `json:"items"`
	TotalItems      int  `json:"total_items"`
	CurrentPage     int  `json:"current_page"`
	TotalPages      int  `json:"total_pages"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

func NewPaginatedData[T any](items []T, total, page, pageSize int) PaginatedData[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return PaginatedData[T]{
		Items:           items,
		TotalItems:      total,
		CurrentPage:     page,
		TotalPages:      pages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < pages,
	}
}
