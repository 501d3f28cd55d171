package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aulasoft/institution/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	claims jwtx.Claims
	err    error
}

func (f fakeValidator) Validate(_ context.Context, _ string) (jwtx.Claims, error) {
	return f.claims, f.err
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	validClaims := jwtx.Claims{Role: "Admin"}
	validClaims.Subject = "1"

	t.Run("missing header is unauthenticated", func(t *testing.T) {
		var hit bool
		h := Chain(okHandler(&hit), AuthnMiddleware(fakeValidator{claims: validClaims}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
		require.False(t, hit)
	})

	t.Run("non-bearer scheme is unauthenticated", func(t *testing.T) {
		var hit bool
		h := Chain(okHandler(&hit), AuthnMiddleware(fakeValidator{claims: validClaims}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, hit)
	})

	t.Run("validator failure is indistinguishable from missing token", func(t *testing.T) {
		var hit bool
		h := Chain(okHandler(&hit), AuthnMiddleware(fakeValidator{err: errors.New("revoked")}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, hit)
	})

	t.Run("valid token reaches handler with claims in context", func(t *testing.T) {
		var gotRole, gotUser string
		h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRole = RoleFromContext(r.Context())
			gotUser = UserIDFromContext(r.Context())
		}), AuthnMiddleware(fakeValidator{claims: validClaims}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Admin", gotRole)
		require.Equal(t, "1", gotUser)
	})
}

func TestRequireAnyRole(t *testing.T) {
	t.Parallel()

	withRole := func(role string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), CtxKeyRole, role)
		return req.WithContext(ctx)
	}

	t.Run("allows a listed role", func(t *testing.T) {
		var hit bool
		h := Chain(okHandler(&hit), RequireAnyRole("Admin", "Coordinator"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withRole("Coordinator"))

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, hit)
	})

	t.Run("forbids an unlisted role", func(t *testing.T) {
		var hit bool
		h := Chain(okHandler(&hit), RequireAnyRole("Admin"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withRole("Student"))

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.False(t, hit)
	})

	t.Run("missing claims are unauthenticated not forbidden", func(t *testing.T) {
		var hit bool
		h := Chain(okHandler(&hit), RequireAnyRole("Admin"))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, hit)
	})
}
