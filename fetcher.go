package wwdc

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch performs a GET request and returns the response body.
	// Transient failures (connection errors, 5xx, 429) carry code
	// ENETWORK and may be retried by the caller.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases underlying resources.
	Close() error
}

// VideoFetcher streams a session video to a destination file. The write
// is atomic: either the complete file appears at dest or nothing does.
// An already existing dest is left untouched.
type VideoFetcher interface {
	FetchVideo(ctx context.Context, url, dest string) error
}

// HostLimiter bounds the request rate per host. Wait blocks until the
// next request to host is allowed or the context is canceled.
type HostLimiter interface {
	Wait(ctx context.Context, host string) error
}
