package repository

// PageSize is the fixed page size of every catalog list view.
const PageSize = 10

// Page is the envelope returned by paginated list queries.
type Page[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}

func pageOffset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
