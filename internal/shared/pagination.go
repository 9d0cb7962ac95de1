package shared

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	page, perPage = normalizePage(page, perPage)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// PageRequest is the page/limit pair requested by a client.
type PageRequest struct {
	Page  int
	Limit int
}

// PageFromQuery reads page and limit query parameters.
func PageFromQuery(q url.Values) PageRequest {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	page, limit = normalizePage(page, limit)
	return PageRequest{Page: page, Limit: limit}
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	page, limit := normalizePage(p.Page, p.Limit)
	return (page - 1) * limit
}

func normalizePage(page, perPage int) (int, int) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	return page, perPage
}
