package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/erp-core/e2e-api-tests/framework"
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool

	fail *color.Color
	skip *color.Color
	pass *color.Color
}

func newConsoleTestLogger(out io.Writer, debug, debugAll, noColor bool) *ConsoleTestLogger {
	c := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: debug || debugAll,
		DebugOutputOnSuccess: debugAll,
		fail:                 color.New(color.FgRed, color.Bold),
		skip:                 color.New(color.FgYellow),
		pass:                 color.New(color.FgGreen, color.Bold),
	}
	if noColor {
		c.fail.DisableColor()
		c.skip.DisableColor()
		c.pass.DisableColor()
	}
	return c
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		c.fail.Fprintf(c.Out, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		c.skip.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		c.skip.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// PrintResults writes the end-of-run summary.
func (c *ConsoleTestLogger) PrintResults(results framework.Results) {
	fmt.Fprintln(c.Out)
	if results.OK() {
		c.pass.Fprintf(c.Out, "All tests passed")
		fmt.Fprintf(c.Out, " (%d passed, %d skipped)\n", results.Passed(), len(results.Skipped))
		return
	}
	c.fail.Fprintf(c.Out, "FAILED TESTS (%d):\n", len(results.Failures))
	for _, f := range results.Failures {
		fmt.Fprintf(c.Out, "  %s\n", f.TestID)
	}
	fmt.Fprintf(c.Out, "%d passed, %d failed, %d skipped\n",
		results.Passed(), len(results.Failures), len(results.Skipped))
}
