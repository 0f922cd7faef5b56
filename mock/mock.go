// Package mock provides function-field test doubles for the wwdc
// service interfaces.
package mock

import (
	"context"

	"github.com/mslomka/wwdc"
)

var _ wwdc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of wwdc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ wwdc.VideoFetcher = (*VideoFetcher)(nil)

// VideoFetcher is a mock implementation of wwdc.VideoFetcher.
type VideoFetcher struct {
	FetchVideoFn func(ctx context.Context, url, dest string) error
}

func (f *VideoFetcher) FetchVideo(ctx context.Context, url, dest string) error {
	return f.FetchVideoFn(ctx, url, dest)
}

var _ wwdc.SessionParser = (*SessionParser)(nil)

// SessionParser is a mock implementation of wwdc.SessionParser.
type SessionParser struct {
	ParseSessionFn func(html string) (*wwdc.Document, []wwdc.ParseWarning, error)
}

func (p *SessionParser) ParseSession(html string) (*wwdc.Document, []wwdc.ParseWarning, error) {
	return p.ParseSessionFn(html)
}

var _ wwdc.TopicParser = (*TopicParser)(nil)

// TopicParser is a mock implementation of wwdc.TopicParser.
type TopicParser struct {
	SessionLinksFn func(html string, year int) ([]wwdc.SessionLink, error)
}

func (p *TopicParser) SessionLinks(html string, year int) ([]wwdc.SessionLink, error) {
	return p.SessionLinksFn(html, year)
}

var _ wwdc.Converter = (*Converter)(nil)

// Converter is a mock implementation of wwdc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ wwdc.ContentWriter = (*ContentWriter)(nil)

// ContentWriter is a mock implementation of wwdc.ContentWriter.
type ContentWriter struct {
	WriteContentFn func(ctx context.Context, session *wwdc.Session, doc *wwdc.Document, opt wwdc.WriteOptions) (*wwdc.WriteResult, error)
}

func (w *ContentWriter) WriteContent(ctx context.Context, session *wwdc.Session, doc *wwdc.Document, opt wwdc.WriteOptions) (*wwdc.WriteResult, error) {
	return w.WriteContentFn(ctx, session, doc, opt)
}

var _ wwdc.CacheStore = (*CacheStore)(nil)

// CacheStore is a mock implementation of wwdc.CacheStore.
type CacheStore struct {
	LoadFn func(ctx context.Context) (*wwdc.Cache, []error, error)
	SaveFn func(ctx context.Context, cache *wwdc.Cache) error
}

func (s *CacheStore) Load(ctx context.Context) (*wwdc.Cache, []error, error) {
	return s.LoadFn(ctx)
}

func (s *CacheStore) Save(ctx context.Context, cache *wwdc.Cache) error {
	return s.SaveFn(ctx, cache)
}

var _ wwdc.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of wwdc.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx, host)
}
