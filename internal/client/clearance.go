package client

import (
	"context"
	"fmt"
	"net/http/cookiejar"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// ClearanceFetcher fetches pages through a resty client whose transport
// carries the cloudflare bypass. It is the client of the sequential path.
type ClearanceFetcher struct {
	http *resty.Client
}

// NewClearanceFetcher builds a fetcher for one scraping run
func NewClearanceFetcher(opts Options) (*ClearanceFetcher, error) {
	opts = opts.withDefaults()

	transport, err := NewTransport(opts)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	httpClient := resty.New()
	httpClient.SetTransport(cloudflarebp.AddCloudFlareByPass(transport))
	httpClient.SetCookieJar(jar)
	httpClient.SetTimeout(opts.Timeout)
	headers := BrowserHeaders(opts)
	for key := range headers {
		httpClient.SetHeader(key, headers.Get(key))
	}
	if cookie := clearanceCookie(opts); cookie != nil {
		httpClient.SetCookie(cookie)
	}

	return &ClearanceFetcher{http: httpClient}, nil
}

// Fetch returns the page body or a *FetchError
func (f *ClearanceFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := f.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, classify(url, err)
	}
	if !res.IsSuccess() {
		return nil, statusError(url, res.StatusCode())
	}
	return res.Body(), nil
}
