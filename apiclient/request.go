package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Request describes one call to the service. It is built by chaining methods on the value
// returned from Client.Get, Client.Post and so on, and is not meant to be reused after End.
type Request struct {
	client         *Client
	method         string
	path           string
	headers        http.Header
	body           []byte
	hasBody        bool
	err            error
	expectedStatus int
}

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// Path returns the path relative to the client's base URL.
func (r *Request) Path() string { return r.path }

// URL returns the absolute URL the request will be sent to.
func (r *Request) URL() string { return r.client.baseURL + r.path }

// Send attaches a request body. Byte slices, strings and json.RawMessage are sent as they
// are; anything else is encoded as JSON. The Content-Type defaults to application/json.
func (r *Request) Send(body interface{}) *Request {
	switch b := body.(type) {
	case nil:
		r.body, r.hasBody = nil, false
		return r
	case []byte:
		r.body = b
	case json.RawMessage:
		r.body = b
	case string:
		r.body = []byte(b)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			r.err = fmt.Errorf("cannot encode request body for %s %s: %w", r.method, r.path, err)
			return r
		}
		r.body = data
	}
	r.hasBody = true
	if r.headers.Get("Content-Type") == "" {
		r.headers.Set("Content-Type", "application/json")
	}
	return r
}

// Set sets a request header, replacing any value from the client defaults.
func (r *Request) Set(name, value string) *Request {
	r.headers.Set(name, value)
	return r
}

// Expect makes End return a *StatusError if the response status is not status.
func (r *Request) Expect(status int) *Request {
	r.expectedStatus = status
	return r
}

// Body returns the encoded request body, or nil if none was attached.
func (r *Request) Body() []byte {
	if !r.hasBody {
		return nil
	}
	return r.body
}

// End sends the request and reads the whole response.
//
// If the request could not be sent or the response could not be read, the error wraps the
// underlying transport error and no Response is returned. If an expected status was set and
// does not match, both the Response and a *StatusError are returned.
func (r *Request) End(ctx context.Context) (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if r.client.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.client.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if r.hasBody {
		bodyReader = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.URL(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("cannot create request %s %s: %w", r.method, r.path, err)
	}
	for name, values := range r.headers {
		req.Header[name] = append([]string(nil), values...)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(RequestIDHeader, requestID)
	}

	logger := r.client.logger
	if r.hasBody {
		logger.Printf("%s %s (%s) body: %s", r.method, r.URL(), requestID, string(r.body))
	} else {
		logger.Printf("%s %s (%s)", r.method, r.URL(), requestID)
	}

	start := time.Now()
	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		logger.Printf("%s %s failed: %s", r.method, r.path, err)
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: error reading response body: %w", r.method, r.path, err)
	}
	response := newResponse(resp, data, time.Since(start))
	logger.Printf("%s %s -> %d in %s: %s", r.method, r.path, response.StatusCode,
		response.Duration.Round(time.Millisecond), string(data))

	if r.expectedStatus != 0 && response.StatusCode != r.expectedStatus {
		return response, &StatusError{
			Method:   r.method,
			Path:     r.path,
			Expected: r.expectedStatus,
			Actual:   response.StatusCode,
			Body:     data,
		}
	}
	return response, nil
}
