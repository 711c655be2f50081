package application

import "errors"

// The operation contract surfaces outcomes as sentinel errors instead of
// the original degrade-to-false behavior. Callers that want the old
// contract collapse any error to a zero value.
//
// Single-entity reads deliberately fold "absent" and "not permitted" into
// ErrNotFound so existence never leaks; list, count and sum operations
// return empty/zero with a nil error when the caller is authenticated but
// lacks the role.
var (
	ErrUnauthenticated    = errors.New("no authenticated user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("insufficient role")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)
