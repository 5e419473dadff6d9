package middleware

import (
	"errors"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	scalyrmcp "github.com/app-sre/scalyr-mcp/pkg"
)

// Recovery turns a panic while serving an MCP request into a JSON-RPC
// internal error. Tool handler panics are already caught by the MCP server,
// so this covers the transport and middleware around it.
func Recovery(cfg *scalyrmcp.Config) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
						panic(err)
					}

					cfg.Logger.Errorw("Recovered from a panic while serving MCP request",
						"User", userOrLocal(r.Context()),
						"Method", r.Method,
						"Session", r.Header.Get("Mcp-Session-Id"),
						"Panic", v,
					)
					writeJSONRPCError(w, http.StatusInternalServerError, mcp.INTERNAL_ERROR, "An internal error has occurred")
				}
			}()
			h.ServeHTTP(w, r)
		})
	}
}
