// Package tenant enforces tenant isolation for multi-tenant facility-management
// applications: every request runs on behalf of exactly one tenant (company),
// and no code path may observe or mutate another tenant's data.
//
// The package is built around four cooperating pieces:
//
// 1. Context carrier - the active tenant ID travels on the request context
// 2. Resolver - derives the tenant from the authenticated principal and
// detects mismatched client-declared tenant headers
// 3. Middleware - resolves the tenant before business logic runs and
// guarantees the context is scoped to the request
// 4. Violation handling - converts any detected isolation breach into an
// audited, sanitized rejection
//
// # Usage
//
//	import "github.com/dmitrymomot/facilitykit/pkg/tenant"
//
//	violations := tenant.NewViolationHandler(auditLogger, log)
//	mw := tenant.Middleware(violations,
//		tenant.WithSkipPaths("/health", "/metrics"),
//	)
//
//	r := chi.NewRouter()
//	r.Use(authMiddleware) // must run first: sets the principal
//	r.Use(mw)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		id, err := tenant.Require(r.Context())
//		if err != nil {
//			// tenant-scoped route without a tenant: treat as violation
//		}
//		// use id
//	}
//
// # Fail-closed policy
//
// Any ambiguity about the active tenant is a violation, never an opportunity
// to proceed with a best guess. There is no default or "system" tenant:
// routes that legitimately serve no tenant must opt out explicitly via
// WithTenantOptional, and such routes simply have no tenant in context.
//
// # Violations
//
// Three violation kinds exist, modeled as a single closed Violation type:
//
//   - KindMissingContext: no tenant could be resolved for a tenant-scoped operation
//   - KindCrossTenantAccess: principal and client-declared tenant disagree
//   - KindResourceMismatch: a loaded resource belongs to a different tenant
//
// All three propagate to the ViolationHandler boundary, which records a full
// structured audit event and returns the client only a correlation ID with a
// generic message. Rich detail flows to the audit trail, minimal detail flows
// to the client.
//
// # Concurrency
//
// The tenant ID is a context value, so it is attached to the request's
// continuation rather than inferred from whatever goroutine happens to be
// running. Handlers may fan out to other goroutines and the value follows the
// context. Background workers that outlive the request must use Detach to
// carry the tenant into a fresh context.
package tenant
