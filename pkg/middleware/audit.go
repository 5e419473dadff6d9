package middleware

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	scalyrmcp "github.com/app-sre/scalyr-mcp/pkg"
	"github.com/app-sre/scalyr-mcp/pkg/audit"
	"github.com/app-sre/scalyr-mcp/pkg/models"
)

// Audit records every tool call before it is handled. A failed audit write
// is logged and does not block the query.
func Audit(cfg *scalyrmcp.Config) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query := &audit.QueryData{
				Filter:    request.GetString(models.ArgFilter, ""),
				StartTime: request.GetString(models.ArgStartTime, models.DefaultStartTime),
				EndTime:   request.GetString(models.ArgEndTime, models.DefaultEndTime),
				User:      userOrLocal(ctx),
				Timestamp: time.Now().Unix(),
			}
			if err := cfg.LoggerAudit.Write(ctx, query); err != nil {
				cfg.Logger.Errorf("Unable to write audit for tool %s: %s", request.Params.Name, err)
			}

			return next(ctx, request)
		}
	}
}
