package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Failure reasons carried by FetchError
const (
	ReasonTimeout   = "timeout"
	ReasonTransport = "transport_error"
	reasonStatus    = "http_status"
)

// Fetcher retrieves the raw HTML behind a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchError is a transport, timeout or HTTP status failure.
// It is always recovered by the caller; it never aborts a run.
type FetchError struct {
	URL        string
	Reason     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the failure tag of err, or "" when err is not a FetchError
func ReasonOf(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ""
}

func statusError(url string, code int) *FetchError {
	return &FetchError{
		URL:        url,
		Reason:     fmt.Sprintf("%s:%d", reasonStatus, code),
		StatusCode: code,
	}
}

// classify turns a transport-level error into a tagged FetchError
func classify(url string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	reason := ReasonTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		reason = ReasonTimeout
	}
	return &FetchError{URL: url, Reason: reason, Err: err}
}
