package shared

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const (
	// CSRFSessionKey is the key used to persist tokens in the session store.
	CSRFSessionKey = "csrf_token"
	// CSRFHeader carries the token on mutating cookie-authenticated requests.
	CSRFHeader = "X-CSRF-Token"

	csrfNonceBytes = 18
)

// CSRFManager issues and verifies CSRF tokens. A token is "nonce.mac" where
// mac signs the session id and nonce, so a token only verifies for the
// session that minted it.
type CSRFManager struct {
	secret []byte
}

// NewCSRFManager returns a CSRFManager using the provided secret key.
func NewCSRFManager(secret string) *CSRFManager {
	return &CSRFManager{secret: []byte(secret)}
}

// EnsureToken returns the session's token, minting one on first use. A token
// left over from before a session id rotation is replaced.
func (m *CSRFManager) EnsureToken(sess *Session) (string, error) {
	if sess == nil {
		return "", ErrCSRFTokenMissing
	}
	if token := sess.Get(CSRFSessionKey); token != "" && m.signedFor(sess.ID, token) {
		return token, nil
	}
	nonce := make([]byte, csrfNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(nonce)
	token := encoded + "." + m.sign(sess.ID, encoded)
	sess.Set(CSRFSessionKey, token)
	return token, nil
}

// VerifyToken checks token against the one stored in the session and its
// signature against the session id.
func (m *CSRFManager) VerifyToken(sess *Session, token string) error {
	token = strings.TrimSpace(token)
	if sess == nil || token == "" {
		return ErrCSRFTokenMissing
	}
	expected := sess.Get(CSRFSessionKey)
	if expected == "" {
		return ErrCSRFTokenMissing
	}
	if !hmac.Equal([]byte(expected), []byte(token)) || !m.signedFor(sess.ID, token) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

func (m *CSRFManager) signedFor(sessionID, token string) bool {
	nonce, mac, ok := strings.Cut(token, ".")
	if !ok || nonce == "" {
		return false
	}
	return hmac.Equal([]byte(mac), []byte(m.sign(sessionID, nonce)))
}

func (m *CSRFManager) sign(sessionID, nonce string) string {
	h := hmac.New(sha256.New, m.secret)
	_, _ = h.Write([]byte(sessionID))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
