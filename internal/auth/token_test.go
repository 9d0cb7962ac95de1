package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	tokens := NewTokenManager("signing-key", "https://idp.example.com")
	raw, err := tokens.Issue(users.Profile{ID: "kc-7", Email: "ops@example.com", FirstName: "Omar", LastName: "Haddad"}, time.Minute)
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	profile := claims.Profile()
	require.Equal(t, "kc-7", profile.ID)
	require.Equal(t, "ops@example.com", profile.Email)
	require.Equal(t, "Omar", profile.FirstName)
	require.Equal(t, "Haddad", profile.LastName)
}

func TestVerifyRejections(t *testing.T) {
	tokens := NewTokenManager("signing-key", "https://idp.example.com")

	other := NewTokenManager("other-key", "https://idp.example.com")
	forged, err := other.Issue(users.Profile{ID: "kc-7"}, time.Minute)
	require.NoError(t, err)
	_, err = tokens.Verify(forged)
	require.ErrorIs(t, err, shared.ErrInvalidToken)

	wrongIssuer := NewTokenManager("signing-key", "https://evil.example.com")
	raw, err := wrongIssuer.Issue(users.Profile{ID: "kc-7"}, time.Minute)
	require.NoError(t, err)
	_, err = tokens.Verify(raw)
	require.ErrorIs(t, err, shared.ErrInvalidToken)

	expired := NewTokenManager("signing-key", "https://idp.example.com")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err = expired.Issue(users.Profile{ID: "kc-7"}, time.Minute)
	require.NoError(t, err)
	_, err = tokens.Verify(raw)
	require.ErrorIs(t, err, shared.ErrInvalidToken)

	_, err = tokens.Verify("  ")
	require.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestVerifyRequiresSubjectAndHS256(t *testing.T) {
	tokens := NewTokenManager("signing-key", "")

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	raw, err := noSub.SignedString([]byte("signing-key"))
	require.NoError(t, err)
	_, err = tokens.Verify(raw)
	require.ErrorIs(t, err, shared.ErrInvalidToken)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "kc-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	raw, err = hs512.SignedString([]byte("signing-key"))
	require.NoError(t, err)
	_, err = tokens.Verify(raw)
	require.ErrorIs(t, err, shared.ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "kc-1"},
	})
	raw, err = noExp.SignedString([]byte("signing-key"))
	require.NoError(t, err)
	_, err = tokens.Verify(raw)
	require.ErrorIs(t, err, shared.ErrInvalidToken)
}
