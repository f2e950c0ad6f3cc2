package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/orgflow/pkg/slogx"
)

// Authorizer decides whether a role may perform action on object.
type Authorizer interface {
	Allowed(role, object, action string) (bool, error)
}

// RequirePermission lets the request through only when the caller's role may
// perform action on object. It must run after AuthnMiddleware.
func RequirePermission(authz Authorizer, object, action string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := roleFromCtx(r.Context())

			ok, err := authz.Allowed(role, object, action)
			if err != nil {
				slogx.FromContext(r.Context()).Error("authorization check failed",
					"role", role, "object", object, "action", action, "err", err)
				WriteJSON(w, http.StatusInternalServerError, map[string]string{
					"error":             "server_error",
					"error_description": "authorization check failed",
				})
				return
			}
			if !ok {
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "access_denied",
					"error_description": "role " + role + " may not " + action + " " + object,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
