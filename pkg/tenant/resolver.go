package tenant

import (
	"net/http"
	"strings"
)

// DeclaredTenantHeader is the canonical header through which a client may
// declare which tenant it believes it is acting on. The header is optional;
// when present it must agree with the principal's tenant claim.
const DeclaredTenantHeader = "X-Tenant-ID"

// Resolve derives the active tenant from the authenticated principal and an
// optional client-declared tenant identifier.
//
// Rules, in order:
//
//  1. A principal without a tenant claim fails with a missing-context violation.
//  2. A declared tenant that differs from the principal's claim fails with a
//     cross-tenant violation. A mismatched header is itself a breach, not
//     something to ignore: it indicates either a client bug or an attack
//     probe, and both must be rejected and audited.
//  3. Otherwise the principal's tenant is the resolved tenant.
//
// A malformed declared value is treated the same as a mismatch: the client
// asked for something that cannot be the principal's tenant.
func Resolve(p Principal, declared string) (ID, error) {
	claim := strings.TrimSpace(p.TenantID())
	if claim == "" {
		return "", NewMissingContext("tenant.Resolve")
	}

	userTenant, err := ParseID(claim)
	if err != nil {
		// A principal carrying a garbage claim cannot be scoped to any tenant.
		return "", NewMissingContext("tenant.Resolve")
	}

	declared = strings.TrimSpace(declared)
	if declared == "" {
		return userTenant, nil
	}

	declaredID, err := ParseID(declared)
	if err != nil || declaredID != userTenant {
		return "", NewCrossTenantAccess(userTenant, ID(declared), "tenant.Resolve")
	}

	return userTenant, nil
}

// ResolveRequest resolves the tenant for an HTTP request: the principal comes
// from the request context (set by the auth layer), the declared tenant from
// the DeclaredTenantHeader header.
func ResolveRequest(r *http.Request) (ID, error) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return "", ErrNoPrincipal
	}
	return Resolve(p, r.Header.Get(DeclaredTenantHeader))
}
