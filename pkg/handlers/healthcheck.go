package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/etherlabsio/healthcheck/v2"

	scalyrmcp "github.com/app-sre/scalyr-mcp/pkg"
)

func Healthcheck(cfg *scalyrmcp.Config) http.Handler {
	return healthcheck.Handler(
		healthcheck.WithTimeout(5*time.Second),
		healthcheck.WithChecker(
			"scalyr", healthcheck.CheckerFunc(
				func(ctx context.Context) error {
					if cfg.ScalyrEnv == nil || !cfg.ScalyrEnv.HasToken() {
						cfg.Logger.Errorf("Scalyr API token is not configured")
						return errors.New("Scalyr API token is not configured")
					}
					return nil
				},
			),
		),
		healthcheck.WithChecker(
			"expiration", healthcheck.CheckerFunc(
				func(ctx context.Context) error {
					if cfg.UserEnv != nil && cfg.UserEnv.IsExpired() {
						return errors.New("service instance has expired")
					}
					return nil
				},
			),
		),
	)
}
