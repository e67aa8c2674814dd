package middleware

import (
	"net/http"

	"pts/internal/domain/auth"
	"pts/internal/transport/http/api"
)

// RequireRole admits actors holding one of roles. ADMIN is always admitted.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := make(map[auth.Role]bool, len(roles)+1)
	for _, role := range roles {
		allowed[role] = true
	}
	allowed[auth.RoleAdmin] = true

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !allowed[actor.Role] {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
