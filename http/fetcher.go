// Package http provides HTTP implementations of wwdc.Fetcher and
// wwdc.VideoFetcher for the static Apple Developer pages and their
// video CDN.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mslomka/wwdc"
)

// DefaultFetchTimeout is the default timeout for page requests.
const DefaultFetchTimeout = 30 * time.Second

// userAgent mirrors a desktop browser; the video pages serve reduced
// markup to unknown clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Ensure Fetcher implements wwdc.Fetcher at compile time.
var _ wwdc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// The session and topic pages are server-rendered, so no JavaScript
// execution is needed.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. Connection
// failures and retryable status codes carry ENETWORK; a 404 carries
// ENOTFOUND and is not retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", wwdc.Errorf(wwdc.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", wwdc.Errorf(wwdc.ENETWORK, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wwdc.Errorf(wwdc.ENETWORK, "read %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// statusError maps an HTTP status to an application error, or nil for 200.
func statusError(status int, url string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return wwdc.Errorf(wwdc.ENOTFOUND, "HTTP 404 for %s", url)
	case status == http.StatusTooManyRequests || status >= 500:
		return wwdc.Errorf(wwdc.ENETWORK, "HTTP %d for %s", status, url)
	default:
		return wwdc.Errorf(wwdc.EINVALID, "HTTP %d for %s", status, url)
	}
}
