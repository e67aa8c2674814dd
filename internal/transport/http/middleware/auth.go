package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pts/internal/domain/auth"
	"pts/internal/requestctx"
	"pts/internal/transport/http/api"
)

// Auth resolves a bearer token into the request actor. Requests without a valid token pass
// through anonymous; RequireAuth rejects them where identity is needed.
func Auth(secret string, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				log.Debug("bearer token rejected", zap.String("requestId", GetRequestID(r.Context())), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithActor(r.Context(), claims.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActor(ctx context.Context) (auth.Actor, bool) {
	return requestctx.GetActor(ctx)
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetActor(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
