package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/erp-core/e2e-api-tests/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, u := range []string{"", "localhost:30308", "ftp://host", "/api", "http://"} {
		t.Run(u, func(t *testing.T) {
			_, err := New(u)
			assert.Error(t, err)
		})
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c, err := New("http://localhost:30308/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:30308", c.BaseURL())
	assert.Equal(t, "http://localhost:30308/api/index", c.Get("api/index").URL())
}

func TestGetSendsNoBody(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithJSONResponse(map[string]interface{}{"success": true, "data": nil}, nil))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := New(server.URL)
		require.NoError(t, err)

		resp, err := c.Get("/api/index").End(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.True(t, resp.IsJSON)
		assert.True(t, resp.JSON.GetByKey("success").BoolValue())
		assert.Equal(t, "application/json", resp.ContentType())

		req := <-requestsCh
		assert.Equal(t, "GET", req.Request.Method)
		assert.Equal(t, "/api/index", req.Request.URL.Path)
		assert.Empty(t, req.Body)
		assert.Empty(t, req.Request.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", req.Request.Header.Get("Accept"))
		assert.NotEmpty(t, req.Request.Header.Get(RequestIDHeader))
	})
}

func TestPostSendsJSONBody(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := New(server.URL, WithHeader("Authorization", "Bearer abc"))
		require.NoError(t, err)

		payload := map[string]interface{}{"itemId": 1, "note": "Restock"}
		_, err = c.Post("/api/stock/movement").Send(payload).Expect(200).End(context.Background())
		require.NoError(t, err)

		req := <-requestsCh
		assert.Equal(t, "POST", req.Request.Method)
		assert.Equal(t, "application/json", req.Request.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer abc", req.Request.Header.Get("Authorization"))
		assert.JSONEq(t, `{"itemId":1,"note":"Restock"}`, string(req.Body))
	})
}

func TestSendRawBodyKeepsExplicitContentType(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := New(server.URL)
		require.NoError(t, err)

		_, err = c.Put("/x").Set("Content-Type", "text/plain").Send("hello").End(context.Background())
		require.NoError(t, err)

		req := <-requestsCh
		assert.Equal(t, "text/plain", req.Request.Header.Get("Content-Type"))
		assert.Equal(t, "hello", string(req.Body))
	})
}

func TestSendUnencodableBody(t *testing.T) {
	c, err := New("http://localhost:1")
	require.NoError(t, err)
	_, err = c.Post("/x").Send(map[string]interface{}{"f": func() {}}).End(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot encode request body")
}

func TestExpectMismatchReturnsStatusError(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(400, nil, []byte(`{"success":false}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := New(server.URL)
		require.NoError(t, err)

		resp, err := c.Post("/api/stock/movement").Send(map[string]int{"itemId": 0}).Expect(200).
			End(context.Background())
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, 400, resp.StatusCode)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 200, se.Expected)
		assert.Equal(t, 400, se.Actual)
		assert.Contains(t, se.Error(), `expected status 200 but got 400: {"success":false}`)
	})
}

func TestWithoutExpectAnyStatusIsReturned(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		c, err := New(server.URL)
		require.NoError(t, err)
		resp, err := c.Delete("/x").End(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.False(t, resp.IsJSON)
		assert.True(t, resp.JSON.IsNull())
	})
}

func TestNetworkFailureIsReturned(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := New(url)
	require.NoError(t, err)
	resp, err := c.Get("/api/index").Expect(200).End(context.Background())
	require.Error(t, err)
	assert.Nil(t, resp)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second * 5):
		}
	})
	httphelpers.WithServer(slow, func(server *httptest.Server) {
		c, err := New(server.URL, WithTimeout(time.Millisecond*50))
		require.NoError(t, err)
		_, err = c.Get("/slow").End(context.Background())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestWithLoggerLogsRequestAndResponse(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithJSONResponse(map[string]bool{"success": true}, nil),
		func(server *httptest.Server) {
			c, err := New(server.URL)
			require.NoError(t, err)
			var captured framework.CapturingLogger
			_, err = c.WithLogger(&captured).Get("/api/index").Set(RequestIDHeader, "req-1").
				End(context.Background())
			require.NoError(t, err)

			out := captured.Output()
			require.Len(t, out, 2)
			assert.Contains(t, out[0].Message, "GET "+server.URL+"/api/index (req-1)")
			assert.Contains(t, out[1].Message, "-> 200")
		})
}

func TestWithTracingKeepsWorking(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := New(server.URL, WithTracing())
		require.NoError(t, err)
		resp, err := c.Get("/api/index").Expect(200).End(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		<-requestsCh
	})
}

func TestStatusErrorTruncatesOnRuneBoundary(t *testing.T) {
	body := `"xy` + strings.Repeat("庫", 200) + `"`
	se := &StatusError{Method: "POST", Path: "/api/stock/movement", Expected: 200, Actual: 400, Body: []byte(body)}

	msg := se.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, "庫..."))
	assert.Less(t, len(msg), len(body))
}

func TestWithLoggerOptionSetsDefaultLogger(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(204), func(server *httptest.Server) {
		var captured framework.CapturingLogger
		c, err := New(server.URL, WithLogger(&captured))
		require.NoError(t, err)
		_, err = c.Get("/api/index").End(context.Background())
		require.NoError(t, err)
		assert.Len(t, captured.Output(), 2)
	})
}
