package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/odyssey-erp/shiptrack/internal/shared"
	"github.com/odyssey-erp/shiptrack/internal/users"
)

// Claims are the identity provider claims the service relies on.
type Claims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	jwt.RegisteredClaims
}

// Profile converts the claims into a user profile.
func (c *Claims) Profile() users.Profile {
	return users.Profile{
		ID:        c.Subject,
		Email:     c.Email,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
	}
}

// TokenManager verifies identity provider tokens and mints development tokens
// signed with the same shared key.
type TokenManager struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// NewTokenManager builds a TokenManager. An empty issuer disables the
// issuer check.
func NewTokenManager(signingKey, issuer string) *TokenManager {
	return &TokenManager{key: []byte(signingKey), issuer: issuer, now: time.Now}
}

// Verify parses raw and returns its claims. Every failure wraps
// shared.ErrInvalidToken.
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: token is empty", shared.ErrInvalidToken)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: token rejected", shared.ErrInvalidToken)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: subject missing", shared.ErrInvalidToken)
	}
	return claims, nil
}

// Issue signs a token for p that expires after ttl.
func (m *TokenManager) Issue(p users.Profile, ttl time.Duration) (string, error) {
	if p.ID == "" {
		return "", errors.New("auth: subject required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := m.now()
	claims := &Claims{
		Email:      p.Email,
		GivenName:  p.FirstName,
		FamilyName: p.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}
