package scalyrmcp

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/app-sre/scalyr-mcp/pkg/audit"
	"github.com/app-sre/scalyr-mcp/pkg/env"
	"github.com/app-sre/scalyr-mcp/pkg/env/scalyr"
	"github.com/app-sre/scalyr-mcp/pkg/env/user"
	"github.com/app-sre/scalyr-mcp/pkg/query"
)

const (
	defaultRequestTimeout = 2 * time.Minute
	defaultTransport      = TransportStdio
	defaultPort           = 8080

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	ScalyrEnv   *scalyr.Env
	UserEnv     *user.Env
	Invoker     *query.Invoker
	LoggerAudit *audit.LoggerAudit
	Logger      *zap.SugaredLogger

	// Deadline for a single tool call over HTTP, RequestTimeout() when zero.
	RequestTimeout time.Duration
}

func Production() bool {
	return os.Getenv("ENVIRONMENT") == "production"
}

func RequestTimeout() time.Duration {
	if s := os.Getenv("REQUEST_TIMEOUT"); s != "" {
		if d, err := env.ParseDuration(s); err == nil {
			return d
		}
	}
	return defaultRequestTimeout
}

// Transport selects how the MCP server is exposed: over stdio (the default)
// or over streamable HTTP.
func Transport() (string, error) {
	switch s := os.Getenv("MCP_TRANSPORT"); s {
	case "":
		return defaultTransport, nil
	case TransportStdio, TransportHTTP:
		return s, nil
	default:
		return "", &env.TypeError{Name: "MCP_TRANSPORT"}
	}
}

func Port() (int, error) {
	s := os.Getenv("PORT")
	if s == "" {
		return defaultPort, nil
	}

	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, &env.TypeError{Name: "PORT"}
	}

	return port, nil
}
