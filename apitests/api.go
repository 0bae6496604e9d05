package apitests

import (
	"context"
	"strings"

	"github.com/erp-core/e2e-api-tests/apiclient"
	"github.com/erp-core/e2e-api-tests/framework"
	"github.com/erp-core/e2e-api-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// T represents a test or subtest in the API contract suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner. Those features are provided by the lower-level framework
// package.
//
// Every T shares the one read-only apiclient.Client that the suite was started with; Client
// returns a view of it whose request logging goes into this test's debug output.
//
// To make test assertions, use the assert and require packages, passing the *T as if it were
// a *testing.T. The Require methods fail and immediately exit the test.
type T struct {
	context *framework.Context
	client  *apiclient.Client
}

func newTestScope(context *framework.Context, client *apiclient.Client) *T {
	return &T{
		context: context,
		client:  client.WithLogger(context.DebugLogger()),
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.client))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Defer schedules cleanup to run when the test finishes.
func (t *T) Defer(fn func()) {
	t.context.Defer(fn)
}

// Client returns the shared request client.
func (t *T) Client() *apiclient.Client {
	return t.client
}

// Ctx is the context for network calls made by this test.
func (t *T) Ctx() context.Context {
	return t.context.Ctx()
}

// RequireResponse sends the request, failing the test if it cannot be sent or if the status
// is not the expected one.
func (t *T) RequireResponse(req *apiclient.Request, status int) *apiclient.Response {
	resp, err := req.Expect(status).End(t.Ctx())
	require.NoError(t, err, "%s %s", req.Method(), req.Path())
	return resp
}

// RequireEnvelope fails the test unless the response body is a JSON object containing at
// least the success and data keys.
func (t *T) RequireEnvelope(resp *apiclient.Response) servicedef.Object {
	body := t.RequireObject(resp)
	t.RequireKeys(body, "response body", servicedef.FieldSuccess, servicedef.FieldData)
	return body
}

// RequireObject fails the test unless the response body is a JSON object.
func (t *T) RequireObject(resp *apiclient.Response) servicedef.Object {
	require.True(t, resp.IsJSON, "response body is not JSON: %q", string(resp.Body))
	body, err := servicedef.AsObject(resp.JSON)
	require.NoError(t, err, "response body")
	return body
}

// RequireKeys fails the test if any of the keys is absent from obj. Values are not checked.
func (t *T) RequireKeys(obj servicedef.Object, what string, keys ...string) {
	if missing := obj.Missing(keys...); len(missing) > 0 {
		require.Fail(t, "missing keys in "+what, "expected keys [%s] but [%s] were not present",
			strings.Join(keys, ", "), strings.Join(missing, ", "))
	}
}

// RequireNestedObject returns the value at key as an object, failing the test if it is absent
// or is not an object.
func (t *T) RequireNestedObject(obj servicedef.Object, key string) servicedef.Object {
	t.RequireKeys(obj, "response body", key)
	nested, err := servicedef.AsObject(obj.Get(key))
	require.NoError(t, err, "value of %q", key)
	return nested
}

// RequireBool fails the test unless obj[key] is exactly the JSON boolean want.
func (t *T) RequireBool(obj servicedef.Object, key string, want bool) {
	t.RequireKeys(obj, "response body", key)
	v := obj.Get(key)
	require.Equal(t, ldvalue.BoolType, v.Type(), "value of %q should be a boolean but was %s", key, v.JSONString())
	require.Equal(t, want, v.BoolValue(), "value of %q", key)
}

// AssertType records a failure unless obj[key] is present and of the given JSON type.
func (t *T) AssertType(obj servicedef.Object, key string, want ldvalue.ValueType) bool {
	if !obj.Has(key) {
		return assert.Fail(t, "missing key", "expected key %q", key)
	}
	return assert.Equal(t, want, obj.Get(key).Type(), "type of %q", key)
}
