package model

import "errors"

// Sentinel errors for the whole service. They are raised at the layer that
// first detects the condition and travel unwrapped (or wrapped with %w) up to
// the HTTP error handler, which owns the status-code mapping.
var (
	// ErrUnauthorized covers bad credentials, inactive users, tokens that do
	// not decode, and context selections the caller is not entitled to.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but lacks the specific
	// privilege (system-admin resource, office mismatch, edit vs view).
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest covers missing office selection, parent/child ownership
	// mismatches and malformed role/office combinations.
	ErrBadRequest = errors.New("bad request")

	// ErrConflict signals a duplicate email, national id or membership role.
	ErrConflict = errors.New("conflict")

	// ErrNotFound is returned both when an entity is absent and when it lives
	// in another office, so existence never leaks across tenants.
	ErrNotFound = errors.New("not found")

	// ErrInvalidToken is the only failure the token codec produces. Callers
	// map it to a 401; it must never surface as an internal error.
	ErrInvalidToken = errors.New("invalid token")
)
