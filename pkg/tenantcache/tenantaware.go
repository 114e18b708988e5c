package tenantcache

import (
	"context"
	"time"

	"github.com/dmitrymomot/facilitykit/pkg/tenant"
)

// keyPrefix is the namespace prefix format shared by the decorator and the
// key generator: "tenant:<id>:".
const keyPrefixFormat = "tenant:"

// TenantAware decorates a Cache so every operation runs inside the calling
// tenant's namespace. The tenant comes from the request context; an unset
// context fails closed with a missing-context violation rather than touching
// shared keys.
//
// Clear is tenant-scoped by construction: it deletes the tenant's prefix and
// nothing else, so one tenant can never evict another tenant's warm entries.
type TenantAware struct {
	inner Cache
}

// NewTenantAware wraps inner with tenant namespacing.
func NewTenantAware(inner Cache) *TenantAware {
	if inner == nil {
		panic("tenantcache: inner cache cannot be nil")
	}
	return &TenantAware{inner: inner}
}

// Get retrieves the value stored under key in the calling tenant's namespace.
func (c *TenantAware) Get(ctx context.Context, key string) ([]byte, error) {
	nsKey, err := c.namespacedKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return c.inner.Get(ctx, nsKey)
}

// Set stores the value under key in the calling tenant's namespace.
func (c *TenantAware) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	nsKey, err := c.namespacedKey(ctx, key)
	if err != nil {
		return err
	}
	return c.inner.Set(ctx, nsKey, value, ttl)
}

// Delete evicts key from the calling tenant's namespace.
func (c *TenantAware) Delete(ctx context.Context, key string) error {
	nsKey, err := c.namespacedKey(ctx, key)
	if err != nil {
		return err
	}
	return c.inner.Delete(ctx, nsKey)
}

// Clear removes all entries belonging to the calling tenant. Other tenants'
// entries are untouched; there is no operation that clears the whole backend
// through this decorator.
func (c *TenantAware) Clear(ctx context.Context) error {
	id, err := tenant.Require(ctx)
	if err != nil {
		return err
	}
	return c.inner.DeletePrefix(ctx, Namespace(id))
}

// Close closes the underlying backend.
func (c *TenantAware) Close() error {
	return c.inner.Close()
}

func (c *TenantAware) namespacedKey(ctx context.Context, key string) (string, error) {
	id, err := tenant.Require(ctx)
	if err != nil {
		return "", err
	}
	return Namespace(id) + key, nil
}

// Namespace returns the backend key prefix for a tenant: "tenant:<id>:".
// Exposed so operators and tests can reason about the physical key layout.
func Namespace(id tenant.ID) string {
	return keyPrefixFormat + id.String() + ":"
}
