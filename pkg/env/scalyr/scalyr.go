package scalyr

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/app-sre/scalyr-mcp/pkg/env"
)

const (
	DefaultEndpoint = "https://app.scalyr.com/api/query"

	TokenKey = "SCALYR_API_TOKEN"
)

type Env struct {
	Token    string
	Endpoint string
	Timeout  time.Duration
}

// File layout accepted via SCALYR_CONFIG_FILE.
type fileConfig struct {
	Token    string `toml:"token"`
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
}

func NewScalyrEnv() *Env {
	return &Env{Endpoint: DefaultEndpoint}
}

// Populate reads the optional configuration file first, then lets the
// environment override it. A missing token is not an error here: the query
// invoker reports it on every call instead.
func (s *Env) Populate() error {
	if path := os.Getenv("SCALYR_CONFIG_FILE"); path != "" {
		var f fileConfig
		if _, err := toml.DecodeFile(filepath.Clean(path), &f); err != nil {
			return fmt.Errorf("unable to read Scalyr configuration file: %w", err)
		}
		if f.Token != "" {
			s.Token = f.Token
		}
		if f.Endpoint != "" {
			s.Endpoint = f.Endpoint
		}
		if f.Timeout != "" {
			timeout, err := env.ParseDuration(f.Timeout)
			if err != nil {
				return fmt.Errorf("unable to parse timeout in Scalyr configuration file: %w", err)
			}
			s.Timeout = timeout
		}
	}

	if token := os.Getenv(TokenKey); token != "" {
		s.Token = token
	}

	if endpoint := os.Getenv("SCALYR_ENDPOINT"); endpoint != "" {
		s.Endpoint = endpoint
	}
	if s.Endpoint == "" {
		s.Endpoint = DefaultEndpoint
	}

	if value := os.Getenv("SCALYR_TIMEOUT"); value != "" {
		timeout, err := env.ParseDuration(value)
		if err != nil {
			return &env.TypeError{Name: "SCALYR_TIMEOUT"}
		}
		s.Timeout = timeout
	}

	return nil
}

func (s *Env) HasToken() bool {
	return s.Token != ""
}
