package client

import (
	"context"
	"net/http"
)

// PooledFetcher uses a plain pooled http.Client. It backs the concurrent
// path, where MaxConnsPerHost enforces the per-host limit.
type PooledFetcher struct {
	http    *http.Client
	headers http.Header
	cookie  *http.Cookie
}

// NewPooledFetcher builds a fetcher for one scraping run
func NewPooledFetcher(opts Options) (*PooledFetcher, error) {
	opts = opts.withDefaults()

	transport, err := NewTransport(opts)
	if err != nil {
		return nil, err
	}

	return &PooledFetcher{
		http: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		headers: BrowserHeaders(opts),
		cookie:  clearanceCookie(opts),
	}, nil
}

// Fetch returns the page body or a *FetchError
func (f *PooledFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: ReasonTransport, Err: err}
	}
	for key, values := range f.headers {
		req.Header[key] = values
	}
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, classify(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(url, resp.StatusCode)
	}

	body, err := ReadResponseBody(resp)
	if err != nil {
		return nil, classify(url, err)
	}
	return body, nil
}
