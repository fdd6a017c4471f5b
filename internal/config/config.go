// Package config resolves the target server address and client settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application name.
	AppName = "taskprobe"

	// DefaultBaseURL is the address of a locally running task server.
	DefaultBaseURL = "http://localhost:5001"

	// DefaultTimeout bounds each API call.
	DefaultTimeout = 10 * time.Second

	// DefaultEnvFile is loaded from the working directory when present.
	DefaultEnvFile = ".env"
)

// Environment variable names.
const (
	EnvBaseURL = "TASKPROBE_BASE_URL"
	EnvToken   = "TASKPROBE_TOKEN"
	EnvTimeout = "TASKPROBE_TIMEOUT"
)

// Config holds client settings.
type Config struct {
	// BaseURL is the root URL under which /tasks lives.
	BaseURL string

	// Token is an optional bearer token sent with every request.
	Token string

	// Timeout bounds each API call.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config from defaults, the env file and the process environment.
// Process environment wins over the env file. If envFile is empty, .env in the
// working directory is read when it exists.
func New(envFile string) (*Config, error) {
	fileVars, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileVars[key]
	}

	cfg := &Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
	if v := lookup(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	cfg.Token = lookup(EnvToken)
	if v := lookup(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", EnvTimeout, v)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil, nil
		}
		path = DefaultEnvFile
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return vars, nil
}

// Validate checks the settings and normalizes BaseURL.
func (c *Config) Validate() error {
	raw := strings.TrimSpace(c.BaseURL)
	if raw == "" {
		return errors.New("base URL required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %s", raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL: %s", raw)
	}
	c.BaseURL = strings.TrimRight(raw, "/")

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}
