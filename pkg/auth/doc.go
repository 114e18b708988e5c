// Package auth turns verified JWT access tokens into tenant principals.
//
// The middleware extracts a bearer token, verifies it, and attaches the
// claims to the request context both as jwt claims and as the principal the
// tenant security stage resolves against. The tenant claim inside the token
// is the only source of the caller's tenant; client-supplied headers can at
// most be checked against it, never override it.
//
// Usage:
//
//	svc, _ := jwt.NewFromString(cfg.SigningKey)
//	r.Use(auth.Middleware(svc))
//	r.Use(tenant.Middleware(violations))
package auth
