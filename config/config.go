// Package config provides the harness configuration.
//
// Values are layered, later sources winning: built-in defaults, an optional YAML file, an
// optional .env file, process environment variables with the E2E_ prefix, and finally
// command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp-core/e2e-api-tests/servicedef"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "E2E"

// DefaultFile is the YAML file read when no other path is given. It may be absent.
const DefaultFile = "e2e.yaml"

// DefaultAwaitService is how long the harness waits for the service before running tests.
const DefaultAwaitService = 10 * time.Second

// LogFormat selects the harness log output.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// Config holds all harness settings.
type Config struct {
	// BaseURL is the address of the service under test.
	// Env: E2E_BASE_URL (default: http://localhost:30308)
	BaseURL string `yaml:"base_url" split_words:"true"`

	// RequestTimeout bounds each request. Zero leaves it to the transport.
	// Env: E2E_REQUEST_TIMEOUT
	RequestTimeout time.Duration `yaml:"request_timeout" split_words:"true"`

	// AwaitService is how long to wait for the service to accept connections before the
	// first test. Zero disables the wait.
	// Env: E2E_AWAIT_SERVICE (default: 10s)
	AwaitService time.Duration `yaml:"await_service" split_words:"true"`

	// Headers are sent with every request.
	// Env: E2E_HEADERS as name:value pairs separated by commas
	Headers HeaderMap `yaml:"headers" split_words:"true"`

	// Run and Skip are test filter patterns, as for the --run and --skip flags.
	// Env: E2E_RUN, E2E_SKIP (comma-separated)
	Run  []string `yaml:"run" split_words:"true"`
	Skip []string `yaml:"skip" split_words:"true"`

	// Tracing enables OpenTelemetry spans and trace propagation for requests.
	// Env: E2E_TRACING
	Tracing bool `yaml:"tracing" split_words:"true"`

	// Log configures harness-level logging.
	Log LogConfig `yaml:"log" split_words:"true"`
}

// LogConfig configures harness-level logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Env: E2E_LOG_LEVEL (default: info)
	Level string `yaml:"level" split_words:"true"`

	// Format is console or json.
	// Env: E2E_LOG_FORMAT (default: console)
	Format LogFormat `yaml:"format" split_words:"true"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:      servicedef.DefaultBaseURL,
		AwaitService: DefaultAwaitService,
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatConsole,
		},
	}
}

// Validate checks values that cannot be caught by parsing alone.
func (c Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout must not be negative: %s", c.RequestTimeout))
	}
	if c.AwaitService < 0 {
		errs = append(errs, fmt.Errorf("await-service duration must not be negative: %s", c.AwaitService))
	}
	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// HeaderMap holds request headers by name. From the environment it is read as
// comma-separated name:value pairs, split on the first colon only, so values such as URLs
// may contain colons. Values cannot contain commas.
type HeaderMap map[string]string

// Decode implements envconfig.Decoder.
func (h *HeaderMap) Decode(value string) error {
	m := make(HeaderMap)
	for _, item := range strings.Split(value, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		name, val, ok := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("invalid header %q, expected name:value", item)
		}
		m[name] = strings.TrimSpace(val)
	}
	*h = m
	return nil
}
