package handlers

// Page страница списка
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
}

// Paginate режет список на страницы, нумерация с 1.
// Страница за пределами списка приводится к последней.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = pageSize
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)

	start := (page - 1) * size
	end := min(start+size, total)

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    end < total,
	}
}
