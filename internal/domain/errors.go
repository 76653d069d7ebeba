package domain

import "errors"

// Sentinel errors returned by the engine. Handlers map them to HTTP status
// codes; callers test with errors.Is so wrapped variants keep their kind.
var (
	// ErrNotFound indicates the primary entity of an operation is absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the authenticated caller lacks the required
	// relationship to the entity (not author, not post owner, not self,
	// not administrator).
	ErrForbidden = errors.New("forbidden")
)
