package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/erp-core/e2e-api-tests/apiclient"
	"github.com/erp-core/e2e-api-tests/apitests"
	"github.com/erp-core/e2e-api-tests/config"
	"github.com/erp-core/e2e-api-tests/framework"
	"github.com/erp-core/e2e-api-tests/logging"
	"github.com/erp-core/e2e-api-tests/telemetry"
)

var errTestsFailed = errors.New("some tests failed")

func main() {
	if err := rootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	var params commandParams

	cmd := &cobra.Command{
		Use:   "erp-api-tests",
		Short: "Run the API contract tests against a running ERP service",
		Long: `Run the API contract tests against a running ERP service.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. YAML file (--config, default e2e.yaml, if it exists)
  3. .env file (--env-file, default .env, if it exists)
  4. Environment variables
  5. Command line flags

Environment variables:
  E2E_BASE_URL         Base URL of the service (default: http://localhost:30308)
  E2E_REQUEST_TIMEOUT  Timeout for each request (default: none)
  E2E_AWAIT_SERVICE    How long to wait for the service to start (default: 10s)
  E2E_HEADERS          Extra request headers, as name:value pairs separated by commas
                       (split on the first colon; values cannot contain commas)
  E2E_RUN, E2E_SKIP    Test filter patterns, separated by commas
  E2E_TRACING          Send OpenTelemetry traces for requests (default: false)
  E2E_LOG_LEVEL        Log level: debug, info, warn, error (default: info)
  E2E_LOG_FORMAT       Log format: console, json (default: console)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTests(ctx, cmd, &params, stdout, stderr)
		},
	}
	cmd.SetContext(context.Background())
	params.addFlags(cmd.Flags())
	return cmd
}

func runTests(ctx context.Context, cmd *cobra.Command, params *commandParams, stdout, stderr io.Writer) error {
	cfg, err := config.Load(params.configFile, params.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := params.apply(cmd.Flags(), &cfg); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(stderr, cfg.Log)

	opts := []apiclient.Option{apiclient.WithTimeout(cfg.RequestTimeout)}
	for name, value := range cfg.Headers {
		opts = append(opts, apiclient.WithHeader(name, value))
	}
	if cfg.Tracing {
		shutdown, err := telemetry.InitTracerProvider(ctx)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("tracer shutdown failed")
			}
		}()
		opts = append(opts, apiclient.WithTracing())
	}

	client, err := apiclient.New(cfg.BaseURL, opts...)
	if err != nil {
		return err
	}

	if cfg.AwaitService > 0 {
		status, err := framework.AwaitService(ctx, client.HTTPClient(), client.BaseURL(), cfg.AwaitService, stdout)
		if err != nil {
			return fmt.Errorf("service at %s is not available: %w", client.BaseURL(), err)
		}
		logger.Debug().
			Int("status", status.StatusCode).
			Int("attempts", status.Attempts).
			Dur("elapsed", status.Elapsed).
			Msg("service is up")
	}

	fmt.Fprintln(stdout)
	framework.PrintFilterDescription(stdout, params.filters)
	fmt.Fprintln(stdout, "Running test suite")

	testLogger := newConsoleTestLogger(stdout, params.debug, params.debugAll, params.noColor)
	runOpts := framework.RunOptions{
		Filter:     params.filters.AsFilter,
		TestLogger: testLogger,
	}
	// Per-test debug output, including every request and response, is also streamed to the
	// harness log at debug level.
	if logger.GetLevel() <= zerolog.DebugLevel {
		runOpts.DebugOutput = logging.NewPrinter(logger, "test")
	}

	start := time.Now()
	results := apitests.RunTestSuite(ctx, client, runOpts)
	logger.Debug().Dur("elapsed", logging.Elapsed(start)).Msg("test run finished")

	testLogger.PrintResults(results)
	if !results.OK() {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "To run only the failed tests again:")
		fmt.Fprintf(stdout, "  %s\n", params.rerunCommand(cmd.Flags(), filepath.Base(os.Args[0]), client.BaseURL(), results))
		return errTestsFailed
	}
	if ctx.Err() != nil {
		return errors.New("test run was interrupted")
	}
	return nil
}
