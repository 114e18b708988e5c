package tenant

import "errors"

var (
	// ErrInvalidIdentifier is returned when a tenant identifier is malformed.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrNoPrincipal is returned when no authenticated principal is present
	// in the request context. The authentication middleware must run first.
	ErrNoPrincipal = errors.New("no authenticated principal in context")
)
