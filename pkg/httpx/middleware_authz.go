package httpx

import (
	"net/http"
	"strings"
)

// RequireAnyRole allows the request through when the verified role claim is
// one of the listed roles. A request with no role claim at all gets 401; a
// valid token with the wrong role gets 403. Handlers behind this middleware
// never run their side effects for denied requests.
func RequireAnyRole(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, r := range required {
		want[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			if _, ok := want[role]; !ok {
				writeBearerRoleError(w, required...)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-style error response for an authenticated caller whose role is
// not in the operation's required set.
func writeBearerRoleError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("insufficient_role"))
}
