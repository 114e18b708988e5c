package tenant

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// principalKey carries the authenticated principal set by the auth layer.
type principalKey struct{}

// WithTenant returns a context carrying the given tenant ID, replacing any
// existing value. The value is attached to the context itself, so it follows
// the request's continuation across goroutines and scheduler handoffs rather
// than being inferred from ambient thread identity.
func WithTenant(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext retrieves the tenant ID from the context.
// Returns false if no tenant is set. Absence is an observable state, not an
// error: use this accessor only on code paths that are legitimately
// tenant-optional (e.g. public endpoints).
func FromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(contextKey{}).(ID)
	if !ok || id.IsZero() {
		return "", false
	}
	return id, true
}

// Require retrieves the tenant ID or fails with a missing-context violation.
// This is the accessor all tenant-scoped business and cache code must use:
// there is no fallback tenant, so an unset context fails closed.
func Require(ctx context.Context) (ID, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", NewMissingContext("tenant.Require")
	}
	return id, nil
}

// MustFromContext retrieves the tenant ID and panics if absent. Use only in
// handlers mounted strictly behind the tenant middleware.
func MustFromContext(ctx context.Context) ID {
	id, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return id
}

// Detach returns a fresh background context carrying only the tenant value
// from ctx. Background tasks that outlive the request must not hold the
// request context (it is canceled at pipeline exit), but they still need the
// tenant attached explicitly to their own continuation.
func Detach(ctx context.Context) context.Context {
	detached := context.Background()
	if id, ok := FromContext(ctx); ok {
		detached = WithTenant(detached, id)
	}
	return detached
}

// WithPrincipal attaches the authenticated principal to the context.
// Called by the authentication middleware, consumed by Middleware.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p != nil
}

// LoggerExtractor returns a ContextExtractor for the logger that enriches
// log records with the active tenant ID.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := FromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
