package shared

import (
	"errors"
	"sort"
	"strings"
)

// Error taxonomy shared by every domain package. Domain errors wrap one of
// these so the HTTP layer can map them without knowing the domain.
var (
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a missing or expired identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller's role does not allow the action.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the action is not allowed in the current resource state.
	ErrConflict = errors.New("conflict")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidToken indicates the identity provider token could not be verified.
	ErrInvalidToken = errors.New("invalid identity token")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// ValidationError carries field level messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

// Empty reports whether no field errors were recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// OrNil returns nil when no field errors were recorded.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if e.Empty() {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Prefixed returns a copy of err whose field names start with prefix. Errors
// other than a ValidationError are returned unchanged.
func Prefixed(err error, prefix string) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Empty() {
		return err
	}
	out := NewValidationError()
	for field, message := range verr.Fields {
		out.Add(prefix+field, message)
	}
	return out
}

// FieldError builds a single-field ValidationError.
func FieldError(field, message string) error {
	verr := NewValidationError()
	verr.Add(field, message)
	return verr
}
