package suppliers

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/shiptrack/internal/masterdata/shared"
	root "github.com/odyssey-erp/shiptrack/internal/shared"
)

type memoryRepo struct {
	nextID int64
	rows   map[int64]Supplier
	inUse  map[int64]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int64]Supplier), inUse: make(map[int64]bool)}
}

func (m *memoryRepo) List(_ context.Context, f shared.ListFilters) ([]Supplier, int, error) {
	var out []Supplier
	for _, s := range m.rows {
		if f.Search == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Search)) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := len(out)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Supplier, error) {
	s, ok := m.rows[id]
	if !ok {
		return Supplier{}, shared.NotFound("supplier")
	}
	return s, nil
}

func (m *memoryRepo) Create(_ context.Context, in Input) (Supplier, error) {
	m.nextID++
	now := time.Now()
	s := Supplier{ID: m.nextID, Name: in.Name, ContactInfo: in.ContactInfo, DefaultCountry: in.DefaultCountry, CreatedAt: now, UpdatedAt: now}
	m.rows[s.ID] = s
	return s, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, in Input) (Supplier, error) {
	s, ok := m.rows[id]
	if !ok {
		return Supplier{}, shared.NotFound("supplier")
	}
	s.Name, s.ContactInfo, s.DefaultCountry, s.UpdatedAt = in.Name, in.ContactInfo, in.DefaultCountry, time.Now()
	m.rows[id] = s
	return s, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return shared.NotFound("supplier")
	}
	if m.inUse[id] {
		return shared.ErrInUse
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) Count(context.Context) (int, error) { return len(m.rows), nil }

func strPtr(s string) *string { return &s }

func TestCreateNormalizesInput(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	s, err := svc.Create(context.Background(), Input{Name: "  Acme Trading ", ContactInfo: strPtr("   "), DefaultCountry: strPtr(" CN ")})
	require.NoError(t, err)
	require.Equal(t, "Acme Trading", s.Name)
	require.Nil(t, s.ContactInfo)
	require.Equal(t, "CN", *s.DefaultCountry)
}

func TestCreateRejectsBlankAndLongNames(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	_, err := svc.Create(context.Background(), Input{Name: "   "})
	require.ErrorIs(t, err, root.ErrValidation)

	_, err = svc.Create(context.Background(), Input{Name: strings.Repeat("x", 201)})
	var verr *root.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "name")
}

func TestUpdateIsPartial(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	s, err := svc.Create(ctx, Input{Name: "Acme", ContactInfo: strPtr("sales@acme.test")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, s.ID, Patch{DefaultCountry: strPtr("TR")})
	require.NoError(t, err)
	require.Equal(t, "Acme", updated.Name)
	require.Equal(t, "sales@acme.test", *updated.ContactInfo)
	require.Equal(t, "TR", *updated.DefaultCountry)

	_, err = svc.Update(ctx, s.ID, Patch{Name: strPtr(" ")})
	require.ErrorIs(t, err, root.ErrValidation)

	_, err = svc.Update(ctx, 999, Patch{Name: strPtr("x")})
	require.ErrorIs(t, err, root.ErrNotFound)
}

func TestDeleteReferencedSupplierConflicts(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	s, err := svc.Create(ctx, Input{Name: "Acme"})
	require.NoError(t, err)
	repo.inUse[s.ID] = true

	err = svc.Delete(ctx, s.ID)
	require.ErrorIs(t, err, shared.ErrInUse)
	require.ErrorIs(t, err, root.ErrConflict)

	repo.inUse[s.ID] = false
	require.NoError(t, svc.Delete(ctx, s.ID))
	require.ErrorIs(t, svc.Delete(ctx, s.ID), root.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, 0), root.ErrValidation)
}

func TestListSearchAndPagination(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()
	for _, name := range []string{"Alpha Imports", "Beta Textiles", "Alpine Goods"} {
		_, err := svc.Create(ctx, Input{Name: name})
		require.NoError(t, err)
	}
	list, page, err := svc.List(ctx, shared.ListFilters{Page: 1, Limit: 1, Search: "alp"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Alpha Imports", list[0].Name)
	require.Equal(t, 2, page.Total)
	require.Equal(t, 2, page.TotalPages)
}
