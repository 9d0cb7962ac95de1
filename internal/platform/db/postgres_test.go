package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestConstraintHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "shipments_backend_master_key_key"})
	require.True(t, IsUniqueViolation(unique, ""))
	require.True(t, IsUniqueViolation(unique, "shipments_backend_master_key_key"))
	require.False(t, IsUniqueViolation(unique, "customs_shipment_id_key"))
	require.False(t, IsForeignKeyViolation(unique))
	require.Equal(t, "shipments_backend_master_key_key", ViolatedConstraint(unique))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "shipment_items_supplier_id_fkey"}
	require.True(t, IsForeignKeyViolation(fk))

	plain := errors.New("boom")
	require.False(t, IsUniqueViolation(plain, ""))
	require.Empty(t, ViolatedConstraint(plain))
}
