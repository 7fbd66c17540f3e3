package engine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// RetryConfig bounds the exponential backoff for upstream calls.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig covers the hub's upstreams (YouTube, weather.gov,
// Azure OpenAI vision). The whisper upload deliberately does not retry.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// RetryHTTP sends an HTTP request with retries on transient failures.
// fn builds and sends the request; throttling and server-error statuses
// are converted to errors so the backoff loop sees them. The final
// response is returned unread — the caller owns the body.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return retryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if retryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &httpStatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
}

// retryDo runs fn with exponential backoff. Non-transient errors and
// context cancellation stop the loop immediately.
func retryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	wait := rc.InitialWait
	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !transient(err) {
			return zero, err
		}
		if attempt == rc.MaxRetries {
			break
		}

		slog.Debug("retrying upstream call",
			slog.Int("attempt", attempt+1), slog.Duration("wait", wait), slog.Any("error", err))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		wait = time.Duration(float64(wait) * rc.Multiplier)
		if wait > rc.MaxWait {
			wait = rc.MaxWait
		}
	}
	return zero, lastErr
}

// httpStatusError marks a retryable HTTP status inside the backoff loop.
type httpStatusError struct {
	StatusCode int
}

func (e *httpStatusError) Error() string {
	return "upstream returned " + http.StatusText(e.StatusCode)
}

// transient reports whether err is worth retrying: throttling/server
// statuses, connection and DNS failures, and network timeouts.
func transient(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	// net.Error last: OpError also implements it but is always retried.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
