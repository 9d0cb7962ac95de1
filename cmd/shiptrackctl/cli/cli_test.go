package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/shiptrack/internal/auth"
	"github.com/odyssey-erp/shiptrack/internal/masterdata/itemtypes"
	mdshared "github.com/odyssey-erp/shiptrack/internal/masterdata/shared"
	"github.com/odyssey-erp/shiptrack/internal/masterdata/suppliers"
	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	root := NewRootCmd(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenIssueSignsVerifiableToken(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("IDP_SIGNING_KEY", testSigningKey)
	t.Setenv("IDP_ISSUER", "local-idp")

	out, err := run(t, "token", "issue", "--sub", "user-1", "--email", "ops@example.com", "--first", "Ana")
	require.NoError(t, err)

	claims, err := auth.NewTokenManager(testSigningKey, "local-idp").Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	profile := claims.Profile()
	require.Equal(t, "user-1", profile.ID)
	require.Equal(t, "ops@example.com", profile.Email)
	require.Equal(t, "Ana", profile.FirstName)
}

func TestTokenIssueRequiresSubject(t *testing.T) {
	_, err := run(t, "token", "issue", "--email", "ops@example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "sub")
}

func TestSetRoleRejectsUnknownRoleBeforeConnecting(t *testing.T) {
	_, err := run(t, "users", "set-role", "user-1", "SUPERUSER")
	require.EqualError(t, err, `unknown role "SUPERUSER"`)

	_, err = run(t, "users", "set-role", "user-1")
	require.Error(t, err)
}

type stubRoles struct {
	calls []string
}

func (s *stubRoles) SetRole(_ context.Context, id string, role shared.Role) (users.User, error) {
	if id != "user-1" {
		return users.User{}, users.ErrUserNotFound
	}
	s.calls = append(s.calls, id+"="+string(role))
	return users.User{ID: id, Email: "ops@example.com", Role: role}, nil
}

func TestSetRoleWritesThroughRepository(t *testing.T) {
	out := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	repo := &stubRoles{}

	require.NoError(t, setRole(cmd, repo, "user-1", shared.RoleAdmin))
	require.Equal(t, []string{"user-1=ADMIN"}, repo.calls)
	require.Contains(t, out.String(), "is now ADMIN")

	err := setRole(cmd, repo, "ghost", shared.RoleAdmin)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

type stubSuppliers struct {
	rows []suppliers.Supplier
}

func (s *stubSuppliers) List(_ context.Context, f mdshared.ListFilters) ([]suppliers.Supplier, shared.Pagination, error) {
	var out []suppliers.Supplier
	for _, row := range s.rows {
		if strings.Contains(strings.ToLower(row.Name), strings.ToLower(f.Search)) {
			out = append(out, row)
		}
	}
	return out, shared.NewPagination(1, f.Limit, len(out)), nil
}

func (s *stubSuppliers) Create(_ context.Context, in suppliers.Input) (suppliers.Supplier, error) {
	row := suppliers.Supplier{ID: int64(len(s.rows) + 1), Name: in.Name}
	s.rows = append(s.rows, row)
	return row, nil
}

type stubItemTypes struct {
	rows []itemtypes.ItemType
}

func (s *stubItemTypes) List(_ context.Context, f mdshared.ListFilters) ([]itemtypes.ItemType, shared.Pagination, error) {
	var out []itemtypes.ItemType
	for _, row := range s.rows {
		if strings.Contains(strings.ToLower(row.Name), strings.ToLower(f.Search)) {
			out = append(out, row)
		}
	}
	return out, shared.NewPagination(1, f.Limit, len(out)), nil
}

func (s *stubItemTypes) Create(_ context.Context, in itemtypes.Input) (itemtypes.ItemType, error) {
	row := itemtypes.ItemType{ID: int64(len(s.rows) + 1), Name: in.Name}
	s.rows = append(s.rows, row)
	return row, nil
}

func TestSeedIsIdempotent(t *testing.T) {
	sup := &stubSuppliers{rows: []suppliers.Supplier{{ID: 1, Name: "acme trading"}}}
	types := &stubItemTypes{}
	out := new(bytes.Buffer)

	summary, err := Seed(context.Background(), out, sup, types)
	require.NoError(t, err)
	require.Equal(t, SeedSummary{Created: 4, Skipped: 1}, summary)
	require.Len(t, sup.rows, 2)
	require.Len(t, types.rows, 3)

	summary, err = Seed(context.Background(), out, sup, types)
	require.NoError(t, err)
	require.Equal(t, SeedSummary{Created: 0, Skipped: 5}, summary)
}
