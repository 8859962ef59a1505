package middleware

import (
	"net/http"

	"alexandread/internal/logger"
	"alexandread/internal/reqctx"
	"alexandread/internal/utils/helpers"

	"go.uber.org/zap"
)

// OnlyRole ставится после JWTAuth.
func OnlyRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := reqctx.GetRole(r.Context())
			if !ok || userRole != role {
				logger.WithCtx(r.Context()).Warn("Доступ запрещён",
					zap.String("required", role), zap.String("role", userRole))
				helpers.Error(w, http.StatusForbidden, "Access denied.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
