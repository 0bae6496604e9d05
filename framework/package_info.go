// Package framework contains the low-level implementation of the contract test runner
// that can be reused for different services under test.
//
// The general model is:
//
// 1. The harness talks to an already-running service over HTTP. The framework only knows
// the service's base URL; it can check that the service is accepting connections before
// any tests run.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a hierarchical test identifier and
// to accumulate success/failure/skip results.
//
// 3. Every test gets its own debug logger. Its output is handed to the TestLogger when the
// test finishes, so it can be shown only for failed tests.
//
// The domain-specific code that knows what is being tested is responsible for building the
// requests to send and for providing a domain-specific test API on top of the test context.
package framework
