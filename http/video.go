package http

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mslomka/wwdc"
)

// DefaultVideoTimeout bounds a full video download. Session videos run
// to a few GB on slow links, so this is deliberately generous.
const DefaultVideoTimeout = 30 * time.Minute

// Ensure VideoFetcher implements wwdc.VideoFetcher at compile time.
var _ wwdc.VideoFetcher = (*VideoFetcher)(nil)

// VideoFetcher streams session videos from the CDN straight to disk.
// Downloads land in a uniquely named temp file next to the destination
// and are renamed into place on success, so a crash or cancellation
// never leaves a half-written video at dest.
type VideoFetcher struct {
	client *http.Client
}

// VideoOption configures a VideoFetcher.
type VideoOption func(*VideoFetcher)

// WithVideoTimeout overrides the total download timeout.
func WithVideoTimeout(d time.Duration) VideoOption {
	return func(f *VideoFetcher) {
		f.client.Timeout = d
	}
}

// NewVideoFetcher creates a new VideoFetcher.
func NewVideoFetcher(opts ...VideoOption) *VideoFetcher {
	f := &VideoFetcher{
		client: &http.Client{Timeout: DefaultVideoTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchVideo downloads url to dest. An existing dest is assumed
// complete and left untouched.
func (f *VideoFetcher) FetchVideo(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return wwdc.Errorf(wwdc.EINVALID, "invalid video URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return wwdc.Errorf(wwdc.ENETWORK, "fetch video %s: %v", url, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, url); err != nil {
		return err
	}

	tmp := dest + ".tmp-" + uuid.NewString()
	out, err := os.Create(tmp)
	if err != nil {
		return wwdc.Errorf(wwdc.EFS, "create %s: %v", tmp, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return wwdc.Errorf(wwdc.ENETWORK, "download %s: %v", url, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return wwdc.Errorf(wwdc.EFS, "close %s: %v", tmp, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return wwdc.Errorf(wwdc.EFS, "rename %s: %v", filepath.Base(dest), err)
	}
	return nil
}
