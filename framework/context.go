package framework

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	ctx         context.Context
	results     Results
	testLogger  TestLogger
	filter      Filter
	debugOutput Logger
}

// Context is the state of a single test or subtest. It implements the subset of
// *testing.T that testify's assert and require packages need.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// RunOptions are optional settings for Run.
type RunOptions struct {
	// Filter, if set, is called for every test; returning false skips it.
	Filter Filter

	// TestLogger receives progress notifications. Defaults to discarding them.
	TestLogger TestLogger

	// DebugOutput, if set, receives every debug message as soon as it is logged, in addition
	// to the per-test captured output.
	DebugOutput Logger
}

// Run executes a tree of tests, starting with the root action. The root itself has an
// empty TestID and is not reported; only tests started with Context.Run are.
//
// If ctx is cancelled, tests that have not started yet are reported as skipped.
func Run(ctx context.Context, opts RunOptions, action func(*Context)) Results {
	if ctx == nil {
		ctx = context.Background()
	}
	testLogger := opts.TestLogger
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		ctx:         ctx,
		filter:      opts.Filter,
		testLogger:  testLogger,
		debugOutput: opts.DebugOutput,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if !c.skipped {
				c.failed = true
				var addError error
				if _, ok := r.(*Context); ok {
					if len(c.errors) == 0 {
						addError = errors.New("test failed with no failure message")
					}
				} else {
					addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
				}
				if addError != nil {
					c.errors = append(c.errors, addError)
					c.env.testLogger.TestError(c.id, addError)
				}
			}
		}
		c.runCleanups()
		if len(c.id.Path) == 0 {
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped, SkipReason: c.skipReason}
		c.env.results.Tests = append(c.env.results.Tests, result)
		switch {
		case c.skipped:
			c.env.results.Skipped = append(c.env.results.Skipped, result)
		case c.failed:
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.debugLogger.Printf("panic in deferred cleanup: %+v", r)
				}
			}()
			c.cleanups[i]()
		}()
	}
	c.cleanups = nil
}

func (c *Context) ID() TestID {
	return c.id
}

// Ctx returns the context.Context for the whole test run. Blocking operations inside a
// test should use it so that an interrupted run stops promptly.
func (c *Context) Ctx() context.Context {
	return c.env.ctx
}

// Run starts a subtest. It does not return until the subtest has finished.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.debugLogger.Forward = c.env.debugOutput
	switch {
	case c.env.ctx.Err() != nil:
		c1.skipped = true
		c1.skipReason = "test run was cancelled"
		c1.run(func(*Context) {})
	case c.env.filter != nil && !c.env.filter(id):
		c1.skipped = true
		c1.skipReason = "excluded by filter parameters"
		c1.run(func(*Context) {})
	default:
		c1.run(action)
	}
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a test failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := reformatError(fmt.Errorf(format, args...))
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the test immediately. Any failure must already have been recorded.
func (c *Context) FailNow() {
	c.failed = true
	panic(c)
}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer schedules a function to run when the test finishes, whether or not it failed.
// Functions run in reverse order of registration.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError drops testify's "Error Trace" block, which only points into harness
// internals, and trims the surrounding whitespace.
func reformatError(err error) error {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	kept := make([]string, 0, len(lines))
	inTrace := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Error Trace:") {
			inTrace = true
			continue
		}
		if inTrace {
			if !strings.HasPrefix(trimmed, "Error:") && !strings.HasPrefix(trimmed, "Messages:") &&
				!strings.HasPrefix(trimmed, "Test:") {
				continue
			}
			inTrace = false
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == len(lines) {
		return err
	}
	return errors.New(strings.Join(kept, "\n"))
}
