package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
)

type ctxKey string

const (
	ContextKeyUser ctxKey = "user"
)

const (
	forwardedUserHeader = "X-Forwarded-User"

	// Recorded for tool calls that did not arrive over HTTP.
	localUser = "local"

	// JSON-RPC implementation-defined server error.
	unavailableErrorCode = -32000
)

type Middleware func(http.Handler) http.Handler

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

func UserFromContext(ctx context.Context) string {
	if user, ok := ctx.Value(ContextKeyUser).(string); ok {
		return user
	}
	return ""
}

// HTTPContext carries the authorized user from the HTTP request into the
// context the MCP server hands to tool handlers.
func HTTPContext(ctx context.Context, r *http.Request) context.Context {
	if user := UserFromContext(r.Context()); user != "" {
		return WithUser(ctx, user)
	}
	return ctx
}

// MCP clients expect a JSON-RPC error body even when the request never
// reached the server. The request ID is unknown at this point and sent as null.
func writeJSONRPCError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(mcp.NewJSONRPCError(mcp.NewRequestId(nil), code, message, nil))
}

func userOrLocal(ctx context.Context) string {
	if user := UserFromContext(ctx); user != "" {
		return user
	}
	return localUser
}
