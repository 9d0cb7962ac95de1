package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFiltersFromQuery(t *testing.T) {
	f := FiltersFromQuery(url.Values{
		"page":   {"3"},
		"limit":  {"500"},
		"search": {"  acme "},
		"sort":   {"name"},
		"dir":    {"DESC"},
	})
	require.Equal(t, 3, f.Page)
	require.Equal(t, 100, f.Limit)
	require.Equal(t, "acme", f.Search)
	require.Equal(t, SortDesc, f.SortDir)
	require.Equal(t, 200, f.Offset())
}

func TestOrderByAllowsOnlyKnownColumns(t *testing.T) {
	allowed := map[string]string{"name": "name", "created": "created_at"}
	require.Equal(t, "created_at DESC, id DESC", OrderBy(ListFilters{SortBy: "created", SortDir: SortDesc}, allowed, "name"))
	require.Equal(t, "name ASC, id ASC", OrderBy(ListFilters{SortBy: "name; DROP TABLE x"}, allowed, "name"))
}
