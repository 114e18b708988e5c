package auth

import (
	"context"

	"github.com/dmitrymomot/facilitykit/pkg/jwt"
)

// Claims is the access-token payload. The tenant claim set at token issuance
// is the authoritative tenant binding for the request; nothing downstream may
// substitute a tenant the token does not carry.
type Claims struct {
	jwt.StandardClaims
	Tenant string `json:"tid,omitempty"`
}

// TenantID returns the tenant claim. An empty value means the principal is
// not bound to any tenant.
func (c Claims) TenantID() string { return c.Tenant }

// ClaimsFromContext returns the authenticated claims for the request, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	return jwt.GetClaims[Claims](ctx)
}
