package main

import (
	"regexp"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"

	"github.com/erp-core/e2e-api-tests/config"
	"github.com/erp-core/e2e-api-tests/framework"
)

type commandParams struct {
	serviceURL   string
	configFile   string
	envFile      string
	filters      framework.RegexFilters
	timeout      time.Duration
	awaitService time.Duration
	debug        bool
	debugAll     bool
	noColor      bool
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service under test (default "+config.Defaults().BaseURL+")")
	fs.StringVar(&c.configFile, "config", config.DefaultFile, "YAML configuration file, ignored if absent")
	fs.StringVar(&c.envFile, "env-file", ".env", "dotenv file, ignored if absent")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.DurationVar(&c.timeout, "timeout", 0, "timeout for each request, 0 for none")
	fs.DurationVar(&c.awaitService, "await-service", config.DefaultAwaitService,
		"how long to wait for the service to accept connections, 0 to not wait")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
}

// apply overrides cfg with every flag that was given on the command line. Filter patterns
// from the configuration are used only when the corresponding flag was not given.
func (c *commandParams) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("url") {
		cfg.BaseURL = c.serviceURL
	}
	if fs.Changed("timeout") {
		cfg.RequestTimeout = c.timeout
	}
	if fs.Changed("await-service") {
		cfg.AwaitService = c.awaitService
	}
	if c.debugAll {
		cfg.Log.Level = "debug"
	}

	if !fs.Changed("run") {
		for _, p := range cfg.Run {
			if err := c.filters.MustMatch.Set(p); err != nil {
				return err
			}
		}
	}
	if !fs.Changed("skip") {
		for _, p := range cfg.Skip {
			if err := c.filters.MustNotMatch.Set(p); err != nil {
				return err
			}
		}
	}
	cfg.Run = c.filters.MustMatch.Patterns()
	cfg.Skip = c.filters.MustNotMatch.Patterns()
	return nil
}

// rerunCommand returns a command line that runs only the failed tests again, keeping every
// other flag that was given on the command line.
func (c *commandParams) rerunCommand(fs *pflag.FlagSet, program, baseURL string, results framework.Results) string {
	var b commandBuilder
	b.add(program, "--url", baseURL)
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "url", "run", "skip":
			return
		}
		if f.Value.Type() == "bool" {
			if f.Value.String() == "true" {
				b.add("--" + f.Name)
			} else {
				b.add("--" + f.Name + "=" + f.Value.String())
			}
			return
		}
		b.add("--"+f.Name, f.Value.String())
	})
	for _, f := range results.Failures {
		b.add("--run", exactTestPattern(f.TestID))
	}
	return b.String()
}

func exactTestPattern(id framework.TestID) string {
	parts := make([]string, 0, len(id.Path))
	for _, p := range id.Path {
		parts = append(parts, "^"+regexp.QuoteMeta(p)+"$")
	}
	return strings.Join(parts, "/")
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
