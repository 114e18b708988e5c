package tenant

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

const (
	// MaxIDLength prevents DoS via very long identifiers and keeps IDs DNS-compatible.
	MaxIDLength = 63
	MinIDLength = 1
)

// idPattern matches slug-style tenant identifiers: alphanumeric start, allows hyphens.
// UUID-shaped identifiers are accepted separately via uuid.Parse.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

// ID is an opaque tenant identifier. It is immutable and comparable by value.
// IDs are either UUIDs or DNS-safe slugs ("acme", "other-co").
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool { return id == "" }

// ParseID validates and returns a tenant identifier.
// Returns ErrInvalidIdentifier for empty, oversized, or malformed values.
func ParseID(s string) (ID, error) {
	if len(s) < MinIDLength || len(s) > MaxIDLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	if _, err := uuid.Parse(s); err == nil {
		return ID(s), nil
	}
	if !idPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return ID(s), nil
}

// Principal is the contract this package consumes from the authentication
// subsystem. Authentication itself (credential verification, JWT issuance)
// happens upstream; once a principal is in the request context it is trusted.
type Principal interface {
	// TenantID returns the tenant claim of the authenticated identity.
	// An empty string means the principal carries no tenant claim.
	TenantID() string
}

// PrincipalFunc adapts a plain function to the Principal interface.
type PrincipalFunc func() string

func (f PrincipalFunc) TenantID() string { return f() }
