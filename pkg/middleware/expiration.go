package middleware

import (
	"net/http"

	scalyrmcp "github.com/app-sre/scalyr-mcp/pkg"
	"github.com/app-sre/scalyr-mcp/pkg/env/user"
)

const expiredMessage = "The service instance has expired"

// Expiration rejects MCP requests once the instance is past its expiration
// date, before they reach the Scalyr API.
func Expiration(cfg *scalyrmcp.Config) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.UserEnv == nil || !cfg.UserEnv.IsExpired() {
				h.ServeHTTP(w, r)
				return
			}

			cfg.Logger.Warnw(expiredMessage,
				"User", userOrLocal(r.Context()),
				"Expiration", cfg.UserEnv.Expiration.Format(user.ExpiryDateLayout),
			)
			writeJSONRPCError(w, http.StatusServiceUnavailable, unavailableErrorCode, expiredMessage)
		})
	}
}
