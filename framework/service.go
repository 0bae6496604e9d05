package framework

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const servicePollInterval = time.Millisecond * 100

// ServiceStatus describes the first response we got from the service under test.
type ServiceStatus struct {
	StatusCode int
	Attempts   int
	Elapsed    time.Duration
}

// AwaitService polls the service's base URL until it answers with any HTTP response or the
// timeout expires. It only establishes that something is listening; the status code is not
// judged, since the base URL of an API service often has no handler of its own.
//
// Progress dots are written to output, in the same way as a person watching the console
// would expect while a freshly started service is still booting.
func AwaitService(
	ctx context.Context,
	client *http.Client,
	url string,
	timeout time.Duration,
	output io.Writer,
) (ServiceStatus, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if output == nil {
		output = io.Discard
	}
	fmt.Fprintf(output, "Connecting to service at %s", url)
	defer fmt.Fprintln(output)

	start := time.Now()
	deadline := start.Add(timeout)
	probeCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	var status ServiceStatus
	for {
		status.Attempts++
		fmt.Fprintf(output, ".")
		err := probe(probeCtx, client, url, &status)
		if err == nil {
			status.Elapsed = time.Since(start)
			return status, nil
		}
		if ctx.Err() != nil {
			return status, ctx.Err()
		}
		if probeCtx.Err() != nil || !time.Now().Before(deadline) {
			return status, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		select {
		case <-probeCtx.Done():
			if ctx.Err() != nil {
				return status, ctx.Err()
			}
			return status, fmt.Errorf("timed out, result of last query was: %w", err)
		case <-time.After(servicePollInterval):
		}
	}
}

func probe(ctx context.Context, client *http.Client, url string, status *ServiceStatus) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	status.StatusCode = resp.StatusCode
	return nil
}
