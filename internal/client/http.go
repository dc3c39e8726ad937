package client

import (
	"compress/gzip"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	defaultAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	defaultLanguage  = "en-US,en;q=0.9"

	// ClearanceCookie is the cookie a challenge-based bot filter hands out once passed
	ClearanceCookie = "cf_clearance"
)

// Options configures the transport and the browser-like request headers.
// A value is scoped to one run; nothing here is shared process-wide.
type Options struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
	ClearanceToken string
	ProxyURL       string
	Timeout        time.Duration
	// MaxConns bounds the idle pool; PerHost caps connections to a single host
	MaxConns int
	PerHost  int
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Accept == "" {
		o.Accept = defaultAccept
	}
	if o.AcceptLanguage == "" {
		o.AcceptLanguage = defaultLanguage
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxConns <= 0 {
		o.MaxConns = 100
	}
	if o.PerHost <= 0 {
		o.PerHost = 10
	}
	return o
}

// BrowserHeaders returns the headers every request carries
func BrowserHeaders(opts Options) http.Header {
	opts = opts.withDefaults()

	headers := http.Header{}
	headers.Set("User-Agent", opts.UserAgent)
	headers.Set("Accept", opts.Accept)
	headers.Set("Accept-Language", opts.AcceptLanguage)
	// set explicitly, so responses arrive compressed and ReadResponseBody inflates them
	headers.Set("Accept-Encoding", "gzip")
	headers.Set("Connection", "keep-alive")
	headers.Set("Upgrade-Insecure-Requests", "1")
	return headers
}

// clearanceCookie returns the pre-obtained clearance cookie, or nil when none is configured
func clearanceCookie(opts Options) *http.Cookie {
	if opts.ClearanceToken == "" {
		return nil
	}
	return &http.Cookie{Name: ClearanceCookie, Value: opts.ClearanceToken}
}

// NewTransport builds a pooled transport, routed through the proxy when one is set
func NewTransport(opts Options) (*http.Transport, error) {
	opts = opts.withDefaults()

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:        opts.MaxConns,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		MaxIdleConnsPerHost: opts.PerHost,
		MaxConnsPerHost:     opts.PerHost,
		ForceAttemptHTTP2:   true,
	}

	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return transport, nil
}

// ReadResponseBody reads the response body, handling gzip compression if necessary
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	var reader io.ReadCloser
	var err error

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
	default:
		reader = resp.Body
	}

	return io.ReadAll(reader)
}
