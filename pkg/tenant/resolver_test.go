package tenant_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/facilitykit/pkg/tenant"
)

func principalWithClaim(claim string) tenant.Principal {
	return tenant.PrincipalFunc(func() string { return claim })
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("principal claim wins without declared tenant", func(t *testing.T) {
		t.Parallel()
		id, err := tenant.Resolve(principalWithClaim("acme"), "")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID("acme"), id)
	})

	t.Run("matching declared tenant succeeds", func(t *testing.T) {
		t.Parallel()
		id, err := tenant.Resolve(principalWithClaim("acme"), "acme")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID("acme"), id)
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		t.Parallel()
		id, err := tenant.Resolve(principalWithClaim(" acme "), "  acme ")
		require.NoError(t, err)
		assert.Equal(t, tenant.ID("acme"), id)
	})

	t.Run("no tenant claim fails with missing context", func(t *testing.T) {
		t.Parallel()
		_, err := tenant.Resolve(principalWithClaim(""), "")
		v, ok := tenant.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, tenant.KindMissingContext, v.Kind)
	})

	t.Run("malformed claim fails with missing context", func(t *testing.T) {
		t.Parallel()
		_, err := tenant.Resolve(principalWithClaim("not a tenant!"), "")
		v, ok := tenant.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, tenant.KindMissingContext, v.Kind)
	})

	t.Run("mismatched declared tenant is a violation", func(t *testing.T) {
		t.Parallel()
		_, err := tenant.Resolve(principalWithClaim("acme"), "other-co")
		v, ok := tenant.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, tenant.KindCrossTenantAccess, v.Kind)
		assert.Equal(t, tenant.ID("acme"), v.UserTenant)
		assert.Equal(t, tenant.ID("other-co"), v.RequestedTenant)
	})

	t.Run("malformed declared tenant is a violation too", func(t *testing.T) {
		t.Parallel()
		_, err := tenant.Resolve(principalWithClaim("acme"), "not a tenant!")
		v, ok := tenant.AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, tenant.KindCrossTenantAccess, v.Kind)
		assert.Equal(t, tenant.ID("acme"), v.UserTenant)
	})
}

func TestResolveRequest(t *testing.T) {
	t.Parallel()

	t.Run("resolves from principal context and header", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/workorders", nil)
		req.Header.Set(tenant.DeclaredTenantHeader, "acme")
		ctx := tenant.WithPrincipal(req.Context(), principalWithClaim("acme"))

		id, err := tenant.ResolveRequest(req.WithContext(ctx))
		require.NoError(t, err)
		assert.Equal(t, tenant.ID("acme"), id)
	})

	t.Run("missing principal", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/workorders", nil)
		_, err := tenant.ResolveRequest(req)
		require.ErrorIs(t, err, tenant.ErrNoPrincipal)
	})
}
