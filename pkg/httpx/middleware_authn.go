package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aulasoft/institution/pkg/jwtx"
	"github.com/aulasoft/institution/pkg/slogx"
)

// TokenValidator verifies a presented bearer token end to end: signature,
// issuer, audience, lifetime and revocation. Implementations must collapse
// every failure into a single opaque error.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (jwtx.Claims, error)
}

// AuthnMiddleware extracts and validates the bearer token on every request.
// Missing, malformed, expired and revoked tokens are all answered
// identically with 401.
func AuthnMiddleware(v TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Validate(ctx, raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("token validation failed", "err", err)
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
