package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSRFTokenIsStablePerSession(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{ID: "session-a"}

	token, err := m.EnsureToken(sess)
	require.NoError(t, err)
	require.Contains(t, token, ".")

	again, err := m.EnsureToken(sess)
	require.NoError(t, err)
	require.Equal(t, token, again)
	require.NoError(t, m.VerifyToken(sess, token))
}

func TestCSRFVerifyRejectsMissingAndForeignTokens(t *testing.T) {
	m := NewCSRFManager("secret")
	a := &Session{ID: "session-a"}
	b := &Session{ID: "session-b"}
	tokenA, err := m.EnsureToken(a)
	require.NoError(t, err)
	_, err = m.EnsureToken(b)
	require.NoError(t, err)

	require.ErrorIs(t, m.VerifyToken(a, ""), ErrCSRFTokenMissing)
	require.ErrorIs(t, m.VerifyToken(nil, tokenA), ErrCSRFTokenMissing)
	require.ErrorIs(t, m.VerifyToken(&Session{ID: "fresh"}, tokenA), ErrCSRFTokenMissing)
	require.ErrorIs(t, m.VerifyToken(b, tokenA), ErrCSRFTokenMismatch)

	other := NewCSRFManager("other-secret")
	require.ErrorIs(t, other.VerifyToken(a, tokenA), ErrCSRFTokenMismatch)
}

func TestCSRFTokenReissuedAfterSessionRotation(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{ID: "before-login"}
	before, err := m.EnsureToken(sess)
	require.NoError(t, err)

	sess.ID = "after-login"
	require.ErrorIs(t, m.VerifyToken(sess, before), ErrCSRFTokenMismatch)

	after, err := m.EnsureToken(sess)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
	require.NoError(t, m.VerifyToken(sess, after))
}
