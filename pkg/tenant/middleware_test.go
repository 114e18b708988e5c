package tenant_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/facilitykit/pkg/audit"
	"github.com/dmitrymomot/facilitykit/pkg/tenant"
)

// authMiddleware simulates the upstream authentication stage by attaching a
// principal with the given tenant claim to every request.
func authMiddleware(claim string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := tenant.WithPrincipal(r.Context(), principalWithClaim(claim))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestHandler(t *testing.T) (*tenant.ViolationHandler, *audit.InMemoryStorage) {
	t.Helper()
	storage := audit.NewInMemoryStorage()
	return tenant.NewViolationHandler(audit.NewLogger(storage), nil), storage
}

func decodeEnvelope(t *testing.T, body io.Reader) tenant.ErrorResponse {
	t.Helper()
	var resp tenant.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("resolves tenant and attaches it to the request context", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		var seen tenant.ID
		h := authMiddleware("acme")(tenant.Middleware(violations)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = tenant.MustFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/workorders", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tenant.ID("acme"), seen)
		assert.Zero(t, storage.Count())
	})

	t.Run("mismatched header is rejected and audited", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		h := authMiddleware("acme")(tenant.Middleware(violations)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("downstream handler must not run")
		})))

		req := httptest.NewRequest("GET", "/workorders", nil)
		req.Header.Set(tenant.DeclaredTenantHeader, "other-co")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)

		resp := decodeEnvelope(t, rec.Body)
		assert.Equal(t, tenant.ViolationCode, resp.Code)
		assert.Equal(t, "access denied", resp.Message)
		assert.NotEmpty(t, resp.CorrelationID)
		assert.Equal(t, "/workorders", resp.Path)

		// The response must not leak either tenant identifier.
		body := rec.Body.String()
		assert.NotContains(t, body, "acme")
		assert.NotContains(t, body, "other-co")

		// Exactly one audit event, carrying full detail.
		events := storage.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "acme", events[0].UserTenant)
		assert.Equal(t, "other-co", events[0].RequestedTenant)
		assert.Equal(t, resp.CorrelationID, events[0].CorrelationID)
	})

	t.Run("principal without tenant claim fails closed", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		h := authMiddleware("")(tenant.Middleware(violations)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("downstream handler must not run")
		})))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/workorders", nil))

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, 1, storage.Count())
	})

	t.Run("no auth middleware fails closed", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		h := tenant.Middleware(violations)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("downstream handler must not run")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/workorders", nil))

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, 1, storage.Count())
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		h := tenant.Middleware(violations, tenant.WithSkipPaths("/health"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := tenant.FromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, storage.Count())
	})

	t.Run("tenant optional route passes without tenant", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		h := authMiddleware("")(tenant.Middleware(violations, tenant.WithTenantOptional("/public"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// No sentinel tenant: the context simply has none.
			_, ok := tenant.FromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/public/catalog", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, storage.Count())
	})

	t.Run("tenant optional route still rejects mismatched header", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		h := authMiddleware("acme")(tenant.Middleware(violations, tenant.WithTenantOptional("/public"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("downstream handler must not run")
		})))

		req := httptest.NewRequest("GET", "/public/catalog", nil)
		req.Header.Set(tenant.DeclaredTenantHeader, "other-co")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, 1, storage.Count())
	})

	t.Run("violation panic from deep layer becomes a rejection", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		h := authMiddleware("acme")(tenant.Middleware(violations)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(tenant.NewResourceMismatch("acme", "other-co", "workorder", "42", "workorders.GetByID"))
		})))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/workorders/42", nil))

		require.Equal(t, http.StatusForbidden, rec.Code)

		events := storage.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "workorder", events[0].Resource)
		assert.Equal(t, "42", events[0].ResourceID)
	})

	t.Run("non-violation panic propagates", func(t *testing.T) {
		t.Parallel()
		violations, _ := newTestHandler(t)

		h := authMiddleware("acme")(tenant.Middleware(violations)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})))

		assert.Panics(t, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/workorders", nil))
		})
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("rejects request without tenant", func(t *testing.T) {
		t.Parallel()
		violations, storage := newTestHandler(t)

		h := tenant.RequireTenant(violations)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("downstream handler must not run")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/workorders", nil))

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, 1, storage.Count())
	})

	t.Run("passes request with tenant", func(t *testing.T) {
		t.Parallel()
		violations, _ := newTestHandler(t)

		h := tenant.RequireTenant(violations)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/workorders", nil)
		req = req.WithContext(tenant.WithTenant(req.Context(), "acme"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}
