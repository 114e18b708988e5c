package tenant

import (
	"log/slog"
	"net/http"
	"strings"
)

// config holds middleware configuration.
type config struct {
	header        string
	skipPaths     []string
	optionalPaths []string
	logger        *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithHeader overrides the client-declared tenant header name.
func WithHeader(name string) Option {
	return func(c *config) {
		if name != "" {
			c.header = name
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution entirely
// (health checks, metrics). Requests under these prefixes carry no tenant.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// WithTenantOptional marks path prefixes where an unauthenticated or
// tenant-less principal is legitimate (public endpoints). A resolvable
// tenant is still resolved and attached; absence is simply not a violation.
// There is no sentinel tenant: such requests have no tenant in context and
// any tenant-scoped operation they attempt will fail closed.
func WithTenantOptional(paths ...string) Option {
	return func(c *config) {
		c.optionalPaths = append(c.optionalPaths, paths...)
	}
}

// WithLogger sets a custom logger for the middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Middleware creates the tenant security stage. It must be mounted after the
// authentication middleware (which sets the principal) and before any
// business handler.
//
// Per request it resolves the tenant from the principal, validates the
// optional client-declared tenant header, and attaches the resolved tenant to
// the request context. On any resolution failure the pipeline short-circuits
// straight to the ViolationHandler; downstream handlers never run.
//
// The tenant value lives on the derived request context, so its lifetime ends
// with the request no matter how the downstream handler terminates. A request
// served later by the same pooled connection or goroutine starts from the
// server's base context and can never observe a previous tenant. Violations
// thrown as panics from deeper layers are converted to rejections here;
// non-violation panics are re-raised untouched.
func Middleware(violations *ViolationHandler, opts ...Option) func(http.Handler) http.Handler {
	if violations == nil {
		panic("tenant: violation handler cannot be nil")
	}

	cfg := &config{
		header: DeclaredTenantHeader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			optional := false
			for _, p := range cfg.optionalPaths {
				if strings.HasPrefix(r.URL.Path, p) {
					optional = true
					break
				}
			}

			id, err := resolveForRequest(r, cfg.header)
			if err != nil {
				if optional {
					// Absence is fine on optional routes, but an actively
					// mismatched header is still a probe and still rejected.
					if v, ok := AsViolation(err); ok && v.Kind == KindCrossTenantAccess {
						violations.Handle(w, r, v)
						return
					}
					next.ServeHTTP(w, r)
					return
				}
				if v, ok := AsViolation(err); ok {
					violations.Handle(w, r, v)
					return
				}
				// Wiring errors (auth middleware missing) fail closed too.
				cfg.logger.ErrorContext(r.Context(), "tenant resolution failed",
					slog.Any("error", err),
				)
				violations.Handle(w, r, NewMissingContext("tenant.Middleware"))
				return
			}

			ctx := WithTenant(r.Context(), id)

			// Violations raised as panics from deep layers still terminate in
			// a rejection; everything else propagates to the server's own
			// panic handling.
			defer func() {
				if rec := recover(); rec != nil {
					if v, ok := rec.(*Violation); ok {
						violations.Handle(w, r.WithContext(ctx), v)
						return
					}
					panic(rec)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveForRequest(r *http.Request, header string) (ID, error) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return "", ErrNoPrincipal
	}
	return Resolve(p, r.Header.Get(header))
}

// RequireTenant creates middleware that rejects requests without a resolved
// tenant. Mount it on sub-routers whose every route is tenant-scoped.
func RequireTenant(violations *ViolationHandler) func(http.Handler) http.Handler {
	if violations == nil {
		panic("tenant: violation handler cannot be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				violations.Handle(w, r, NewMissingContext("tenant.RequireTenant"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
