package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrorKeepsFirstMessage(t *testing.T) {
	verr := NewValidationError()
	require.NoError(t, verr.OrNil())

	verr.Add("name", "is required")
	verr.Add("name", "is too long")
	require.Equal(t, "is required", verr.Fields["name"])
	require.ErrorIs(t, verr.OrNil(), ErrValidation)
}

func TestPrefixedRenamesFields(t *testing.T) {
	err := Prefixed(FieldError("supplierId", "unknown supplier"), "items[1].")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, map[string]string{"items[1].supplierId": "unknown supplier"}, verr.Fields)
	require.ErrorIs(t, err, ErrValidation)

	require.ErrorIs(t, Prefixed(ErrConflict, "items[0]."), ErrConflict)
	require.NoError(t, Prefixed(nil, "items[0]."))
}
