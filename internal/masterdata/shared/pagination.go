package shared

import (
	"net/url"
	"strings"

	root "github.com/odyssey-erp/shiptrack/internal/shared"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
}

// FiltersFromQuery reads page, limit, search, sort and dir.
func FiltersFromQuery(q url.Values) ListFilters {
	page := root.PageFromQuery(q)
	return ListFilters{
		Page:    page.Page,
		Limit:   page.Limit,
		Search:  strings.TrimSpace(q.Get("search")),
		SortBy:  q.Get("sort"),
		SortDir: strings.ToLower(q.Get("dir")),
	}
}

// PageRequest converts the filters to the shared page request.
func (f ListFilters) PageRequest() root.PageRequest {
	return root.PageRequest{Page: f.Page, Limit: f.Limit}
}

// Offset returns the row offset of the requested page.
func (f ListFilters) Offset() int {
	return f.PageRequest().Offset()
}

// OrderBy returns an ORDER BY expression limited to the allowed columns.
// Unknown sort keys fall back to fallback.
func OrderBy(f ListFilters, allowed map[string]string, fallback string) string {
	dir := "ASC"
	if f.SortDir == SortDesc {
		dir = "DESC"
	}
	column, ok := allowed[f.SortBy]
	if !ok {
		column = fallback
	}
	return column + " " + dir + ", id " + dir
}
