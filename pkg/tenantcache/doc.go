// Package tenantcache provides a tenant-namespaced cache layer: a generic
// key-value Cache capability, two backends (in-memory and Redis), and a
// decorator that rewrites every key into the calling tenant's namespace so
// that tenants sharing one cache can never observe each other's entries.
//
// # Namespacing
//
// The decorator prefixes every caller-supplied key with "tenant:<id>:" where
// the ID comes from the request context. Two logically identical lookups from
// different tenants therefore never normalize to the same backend key, and
// correctness follows from key namespacing alone - concurrent tenants never
// contend on the same logical key, so no extra locking is needed above the
// backend.
//
// # Scoped Clear
//
// Clear on the decorator removes only the calling tenant's entries. An
// unscoped flush would let any tenant evict every other tenant's warm cache,
// which is a cross-tenant availability attack, so the decorator never exposes
// one. Both backends implement prefix-scoped deletion natively: the in-memory
// backend scans its key map, the Redis backend walks a SCAN cursor over the
// tenant prefix.
//
// # Usage
//
//	backend := tenantcache.NewInMemory()
//	cache := tenantcache.NewTenantAware(backend)
//
//	// inside a request handled behind tenant.Middleware:
//	err := cache.Set(ctx, "workorder:42", payload, 5*time.Minute)
//	val, err := cache.Get(ctx, "workorder:42")
//
// Every operation fails closed with a tenant violation when no tenant is
// resolved in the context.
package tenantcache
