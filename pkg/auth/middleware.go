package auth

import (
	"net/http"

	"github.com/dmitrymomot/facilitykit/pkg/jwt"
	"github.com/dmitrymomot/facilitykit/pkg/tenant"
)

// Middleware authenticates bearer tokens and binds the resulting principal to
// the request context. A request without a token passes through
// unauthenticated; whether that is acceptable is decided downstream by the
// tenant security stage, which fails closed on routes that need a tenant.
// A present but invalid token is rejected here with 401.
func Middleware(svc *jwt.Service) func(http.Handler) http.Handler {
	if svc == nil {
		panic("auth: jwt service cannot be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.BearerTokenExtractor(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			var claims Claims
			if err := svc.Parse(token, &claims); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := jwt.SetToken(r.Context(), token)
			ctx = jwt.SetClaims(ctx, claims)
			ctx = tenant.WithPrincipal(ctx, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
