package domain

// Paging describes one page of a listing. Total is the page count,
// not the row count.
type Paging struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// Pageable wraps a page of results with its paging metadata.
type Pageable[T any] struct {
	Data   []T    `json:"data"`
	Paging Paging `json:"paging"`
}

// NewPaging computes the page count from a row total.
func NewPaging(page, size int, totalRows int64) Paging {
	pages := int(totalRows) / size
	if int(totalRows)%size != 0 {
		pages++
	}
	return Paging{Page: page, Size: size, Total: pages}
}
