package middleware

import (
	"fmt"
	"net/http"

	scalyrmcp "github.com/app-sre/scalyr-mcp/pkg"
)

func Authorization(cfg *scalyrmcp.Config) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := r.Header.Get(forwardedUserHeader)
			if user == "" {
				l := fmt.Sprintf("Request without required header: %s", forwardedUserHeader)
				http.Error(w, l, http.StatusBadRequest)
				return
			}

			if cfg.UserEnv == nil || len(cfg.UserEnv.Users) == 0 {
				http.Error(w, "Request cannot be authorized", http.StatusUnauthorized)
				return
			}
			if cfg.UserEnv.IsAuthorized(user) {
				h.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
				return
			}

			l := "User does not have required permissions"
			cfg.Logger.Errorf("%s: %s", l, user)
			http.Error(w, l, http.StatusForbidden)
		})
	}
}
