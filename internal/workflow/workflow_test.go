package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/shiptrack/internal/rbac"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

func TestNextFollowsSuccessorTable(t *testing.T) {
	next, ok := Next(StatusCreated)
	require.True(t, ok)
	require.Equal(t, StatusImportingDetailsDone, next)

	next, ok = Next(StatusImportingDetailsDone)
	require.True(t, ok)
	require.Equal(t, StatusCustomsInProgress, next)

	next, ok = Next(StatusCustomsInProgress)
	require.True(t, ok)
	require.Equal(t, StatusCustomsReceived, next)

	_, ok = Next(StatusCustomsReceived)
	require.False(t, ok)
}

func TestAdvanceRoles(t *testing.T) {
	next, err := Advance(StatusCreated, shared.RoleOperator)
	require.NoError(t, err)
	require.Equal(t, StatusImportingDetailsDone, next)

	_, err = Advance(StatusCustomsInProgress, shared.RoleOperator)
	require.ErrorIs(t, err, shared.ErrForbidden)

	next, err = Advance(StatusCustomsInProgress, shared.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, StatusCustomsReceived, next)

	_, err = Advance(StatusCreated, shared.RoleViewer)
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, err = Advance(StatusCreated, shared.Role("AUDITOR"))
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestAdvanceFollowsCapabilityTable(t *testing.T) {
	roles := []shared.Role{shared.RoleViewer, shared.RoleOperator, shared.RoleAdmin}
	for _, role := range roles {
		for _, from := range []Status{StatusCreated, StatusImportingDetailsDone, StatusCustomsInProgress} {
			next, _ := Next(from)
			action := rbac.ActionAdvance
			if next == StatusCustomsReceived {
				action = rbac.ActionReceiveCustoms
			}
			_, err := Advance(from, role)
			if rbac.Allowed(role, rbac.ResourceShipments, action) {
				require.NoError(t, err, "%s advancing from %s", role, from)
			} else {
				require.ErrorIs(t, err, shared.ErrForbidden, "%s advancing from %s", role, from)
			}
		}

		_, err := Overwrite(StatusCreated, StatusCustomsInProgress, role)
		if rbac.Allowed(role, rbac.ResourceShipments, rbac.ActionOverwriteStatus) {
			require.NoError(t, err, "%s overwriting", role)
		} else {
			require.ErrorIs(t, err, shared.ErrForbidden, "%s overwriting", role)
		}
	}
}

func TestAdvanceTerminal(t *testing.T) {
	_, err := Advance(StatusCustomsReceived, shared.RoleAdmin)
	require.ErrorIs(t, err, ErrTerminal)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestAdvanceUnknownStatus(t *testing.T) {
	_, err := Advance(Status("SHIPPED"), shared.RoleAdmin)
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestOverwrite(t *testing.T) {
	_, err := Overwrite(StatusCreated, StatusCustomsReceived, shared.RoleOperator)
	require.ErrorIs(t, err, shared.ErrForbidden)

	got, err := Overwrite(StatusCreated, StatusCustomsReceived, shared.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, StatusCustomsReceived, got)

	got, err = Overwrite(StatusCustomsInProgress, StatusCustomsInProgress, shared.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, StatusCustomsInProgress, got)

	_, err = Overwrite(StatusCustomsReceived, StatusCreated, shared.RoleAdmin)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Overwrite(StatusCreated, Status("LOST"), shared.RoleAdmin)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestReachesCustomsReceived(t *testing.T) {
	require.True(t, ReachesCustomsReceived(StatusCustomsInProgress, StatusCustomsReceived))
	require.True(t, ReachesCustomsReceived(StatusCreated, StatusCustomsReceived))
	require.False(t, ReachesCustomsReceived(StatusCustomsReceived, StatusCustomsReceived))
	require.False(t, ReachesCustomsReceived(StatusCreated, StatusImportingDetailsDone))
}

func TestCustomsVisibility(t *testing.T) {
	require.Equal(t, VisibilityNotStarted, CustomsVisibility(StatusCreated))
	require.Equal(t, VisibilityNotStarted, CustomsVisibility(StatusImportingDetailsDone))
	require.Equal(t, VisibilityInProgress, CustomsVisibility(StatusCustomsInProgress))
	require.Equal(t, VisibilityAvailable, CustomsVisibility(StatusCustomsReceived))
}

func TestEditGates(t *testing.T) {
	cases := []struct {
		status    Status
		items     bool
		importing bool
		customs   bool
	}{
		{StatusCreated, true, true, false},
		{StatusImportingDetailsDone, true, true, false},
		{StatusCustomsInProgress, false, true, false},
		{StatusCustomsReceived, false, false, true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.items, ItemsEditable(tc.status), tc.status)
		require.Equal(t, tc.importing, ImportingEditable(tc.status), tc.status)
		require.Equal(t, tc.customs, CustomsEditable(tc.status), tc.status)
	}

	require.ErrorIs(t, RequireItemsEditable(StatusCustomsInProgress), ErrLocked)
	require.ErrorIs(t, RequireImportingEditable(StatusCustomsReceived), ErrLocked)
	require.ErrorIs(t, RequireCustomsEditable(StatusCreated), shared.ErrConflict)
	require.NoError(t, RequireCustomsEditable(StatusCustomsReceived))
}

func TestParse(t *testing.T) {
	for _, s := range Statuses() {
		got, err := Parse(string(s))
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
	_, err := Parse("created")
	require.ErrorIs(t, err, ErrUnknownStatus)
}
