package apiclient

import (
	"fmt"
	"mime"
	"net/http"
	"time"
	"unicode/utf8"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const maxBodyInError = 500

// Response is a fully read response from the service.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration

	// JSON is the body parsed as JSON. It is a null value if the body is empty or is not
	// valid JSON; IsJSON tells those cases apart from a literal null.
	JSON   ldvalue.Value
	IsJSON bool
}

func newResponse(resp *http.Response, body []byte, elapsed time.Duration) *Response {
	r := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Duration:   elapsed,
	}
	if len(body) > 0 {
		var v ldvalue.Value
		if err := v.UnmarshalJSON(body); err == nil {
			r.JSON, r.IsJSON = v, true
		}
	}
	return r
}

// ContentType returns the media type of the response without parameters.
func (r *Response) ContentType() string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mediaType
}

// StatusError is returned by Request.End when an expected status was set and the service
// answered with a different one.
type StatusError struct {
	Method   string
	Path     string
	Expected int
	Actual   int
	Body     []byte
}

func (e *StatusError) Error() string {
	body := string(e.Body)
	if len(body) > maxBodyInError {
		cut := maxBodyInError
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	return fmt.Sprintf("%s %s: expected status %d but got %d: %s", e.Method, e.Path, e.Expected, e.Actual, body)
}
