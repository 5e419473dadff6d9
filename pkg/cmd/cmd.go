package cmd

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	scalyrmcp "github.com/app-sre/scalyr-mcp/pkg"
	"github.com/app-sre/scalyr-mcp/pkg/audit"
	"github.com/app-sre/scalyr-mcp/pkg/env/scalyr"
	"github.com/app-sre/scalyr-mcp/pkg/env/user"
	"github.com/app-sre/scalyr-mcp/pkg/handlers"
	"github.com/app-sre/scalyr-mcp/pkg/middleware"
	"github.com/app-sre/scalyr-mcp/pkg/query"
	"github.com/app-sre/scalyr-mcp/pkg/version"
)

const (
	serverName = "scalyr-mcp"

	mcpPath = "/mcp"

	readHeaderTimeout = 20 * time.Second
	idleTimeout       = 2 * time.Minute
)

func Run(logger *zap.SugaredLogger) error {
	production := scalyrmcp.Production()
	logger.Infof("Starting scalyr-mcp version: %s", version.Version())

	transport, err := scalyrmcp.Transport()
	if err != nil {
		return fmt.Errorf("unable to configure transport: %w", err)
	}

	se := scalyr.NewScalyrEnv()
	err = se.Populate()
	if err != nil {
		return fmt.Errorf("unable to configure Scalyr: %w", err)
	}
	logger.Infof("Using Scalyr endpoint: %s (timeout: %s)", se.Endpoint, se.Timeout)
	if !se.HasToken() {
		logger.Warnf("Scalyr API token is not set, queries will fail until %s is configured", scalyr.TokenKey)
	}

	cfg := &scalyrmcp.Config{
		ScalyrEnv:   se,
		Invoker:     query.NewInvoker(se),
		LoggerAudit: audit.NewLoggerAudit(logger),
		Logger:      logger,
	}

	s := NewServer(cfg)

	if transport == scalyrmcp.TransportStdio {
		logger.Infof("MCP server listening on stdio (production: %t)", production)

		err = server.ServeStdio(s, server.WithErrorLogger(zap.NewStdLog(logger.Desugar())))
		if err != nil {
			return fmt.Errorf("unable to serve stdio: %w", err)
		}
		return nil
	}

	usere := user.NewUserEnv()
	err = usere.Populate()
	if err != nil {
		return fmt.Errorf("unable to configure users: %w", err)
	}
	cfg.UserEnv = usere
	cfg.RequestTimeout = scalyrmcp.RequestTimeout()

	date := "NONE"
	if usere.HasExpiration() {
		date = usere.Expiration.Format(user.ExpiryDateLayout)
	}
	logger.Infof("Production: %t, expired: %t (expiration date: %s)", production, usere.IsExpired(), date)
	logger.Debugf("Authorized users: %v", usere.Users)

	port, err := scalyrmcp.Port()
	if err != nil {
		return fmt.Errorf("unable to configure HTTP server: %w", err)
	}
	logger.Infof("HTTP server starting on port: %d (request timeout: %s)", port, cfg.RequestTimeout)

	srv := NewHTTPServer(port, NewRouter(cfg, s, production))
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("unable to start HTTP server: %w", err)
	}

	return nil
}

// NewServer returns the MCP server with the query tool registered.
func NewServer(cfg *scalyrmcp.Config) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version.Version(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(middleware.Audit(cfg)),
	)
	s.AddTool(handlers.QueryTool(), handlers.Query(cfg))

	return s
}

// NewHTTPServer sets no ReadTimeout or WriteTimeout. Either one would cut the
// GET event stream; tool calls are bounded by their request context instead.
func NewHTTPServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

func NewRouter(cfg *scalyrmcp.Config, s *server.MCPServer, production bool) *mux.Router {
	// Temp workaround for easy to access io.Writer.
	defaultLogOutput := log.Default().Writer()

	healthLogOutput := io.Discard
	if !production {
		healthLogOutput = defaultLogOutput
	}
	logHandler := gorillaHandlers.LoggingHandler

	mcpHandler := server.NewStreamableHTTPServer(s,
		server.WithEndpointPath(mcpPath),
		server.WithHTTPContextFunc(middleware.HTTPContext),
	)

	chain := alice.New(
		alice.Constructor(middleware.Recovery(cfg)),
		alice.Constructor(middleware.Authorization(cfg)),
		alice.Constructor(middleware.Expiration(cfg)),
	)
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = scalyrmcp.RequestTimeout()
	}
	// Only tool calls are bounded, the GET stream stays open.
	callChain := chain.Append(alice.Constructor(middleware.Timeout(timeout)))

	r := mux.NewRouter()
	r.Handle("/healthcheck", logHandler(healthLogOutput, handlers.Healthcheck(cfg))).Methods("GET")
	r.Handle(mcpPath, logHandler(defaultLogOutput, callChain.Then(mcpHandler))).Methods("POST")
	r.Handle(mcpPath, logHandler(defaultLogOutput, chain.Then(mcpHandler))).Methods("GET", "DELETE")

	return r
}
