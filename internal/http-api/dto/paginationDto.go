package dto

// Paginated is the list envelope shared by every collection endpoint.
type Paginated[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPaginated[T any](data []T, total, page, pageSize int) *Paginated[T] {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &Paginated[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
