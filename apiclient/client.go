// Package apiclient is the shared HTTP client that every scenario uses to talk to the
// service under test.
//
// A Client is created once with the service's base URL. Its verb methods return a Request
// builder, which can have a JSON body, headers and an expected status attached before it is
// sent with End:
//
//	resp, err := client.Post("/api/stock/movement").
//		Send(payload).
//		Expect(http.StatusOK).
//		End(ctx)
//
// There is no caching and no retrying. Network failures and status mismatches are returned
// to the caller unchanged.
package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erp-core/e2e-api-tests/framework"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RequestIDHeader carries a per-request identifier so harness debug output can be matched
// with the service's own logs.
const RequestIDHeader = "X-Request-Id"

// Client is safe for concurrent use. Its configuration cannot change after New returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	timeout    time.Duration
	logger     framework.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithLogger sets the logger that receives one line per request and response.
func WithLogger(l framework.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithHeader adds a header that is sent with every request.
func WithHeader(name, value string) Option {
	return func(cl *Client) {
		cl.headers.Add(name, value)
	}
}

// WithTimeout bounds each request. Zero means no limit beyond the transport's own.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithTracing wraps the transport so that each request starts a client span and propagates
// trace context headers to the service.
func WithTracing() Option {
	return func(cl *Client) {
		base := cl.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		traced := *cl.httpClient
		traced.Transport = otelhttp.NewTransport(base,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
		cl.httpClient = &traced
	}
}

// New creates a Client for the service at baseURL, which must be an absolute http or https
// URL. A trailing slash is ignored.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be an absolute http or https URL", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		headers:    make(http.Header),
		logger:     framework.NullLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// WithLogger returns a copy of the client that logs to l instead. Scenarios use this to
// route request logging into their own captured debug output.
func (c *Client) WithLogger(l framework.Logger) *Client {
	c1 := *c
	if l == nil {
		l = framework.NullLogger()
	}
	c1.logger = l
	return &c1
}

func (c *Client) Get(path string) *Request    { return c.NewRequest(http.MethodGet, path) }
func (c *Client) Post(path string) *Request   { return c.NewRequest(http.MethodPost, path) }
func (c *Client) Put(path string) *Request    { return c.NewRequest(http.MethodPut, path) }
func (c *Client) Patch(path string) *Request  { return c.NewRequest(http.MethodPatch, path) }
func (c *Client) Delete(path string) *Request { return c.NewRequest(http.MethodDelete, path) }

// NewRequest starts building a request with any method. The path is joined to the base URL
// and may include a query string.
func (c *Client) NewRequest(method, path string) *Request {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Request{
		client:  c,
		method:  method,
		path:    path,
		headers: c.headers.Clone(),
	}
}
