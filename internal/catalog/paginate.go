package catalog

// Page is one slice of a longer sequence.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// TotalPages is max(1, ceil(n/pageSize)).
func TotalPages(n, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns page (1-indexed) of seq. A pageSize below 1 falls back to
// DefaultPageSize and page is clamped into [1, TotalPages].
func Paginate[T any](seq []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := TotalPages(len(seq), pageSize)
	page = max(1, min(page, total))

	start := min((page-1)*pageSize, len(seq))
	end := min(start+pageSize, len(seq))
	items := make([]T, end-start)
	copy(items, seq[start:end])

	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: total,
		TotalItems: len(seq),
	}
}
