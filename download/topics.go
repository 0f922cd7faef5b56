package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mslomka/wwdc"
)

// TopicIndexer builds the topic→sessions index for one conference year.
type TopicIndexer interface {
	Build(ctx context.Context, year int) (wwdc.TopicMap, []wwdc.TopicError, error)
}

var _ TopicIndexer = (*Builder)(nil)

// Builder assembles the topic index by crawling the official topic
// listing pages. Topic pages are fetched concurrently but assignment is
// deterministic: sessions listed under multiple topics go to the first
// topic in official order.
type Builder struct {
	Fetcher     wwdc.Fetcher
	Parser      wwdc.TopicParser
	Limiter     wwdc.HostLimiter
	Logger      *slog.Logger
	Concurrency int
	RetryDelays []time.Duration
	BaseURL     string
}

// Build fetches every official topic page and returns the assignment
// map for the year. A failed topic page is recorded as a TopicError and
// never aborts the others; the returned error is non-nil only when the
// context is canceled.
func (b *Builder) Build(ctx context.Context, year int) (wwdc.TopicMap, []wwdc.TopicError, error) {
	topics := wwdc.OfficialTopics()

	baseURL := b.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// Results are kept by topic position so assignment order does not
	// depend on fetch completion order.
	links := make([][]wwdc.SessionLink, len(topics))
	errs := make([]error, len(topics))

	// The limiter sits inside the retried fetch so every retry attempt
	// is rate limited, not just the first.
	fetch := func(ctx context.Context, url string) (string, error) {
		if b.Limiter != nil {
			if err := b.Limiter.Wait(ctx, hostOf(url)); err != nil {
				return "", err
			}
		}
		return b.Fetcher.Fetch(ctx, url)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, topic := range topics {
		g.Go(func() error {
			pageURL := fmt.Sprintf("%s/videos/%s/", baseURL, topic.Slug)
			errs[i] = func() error {
				html, err := FetchWithRetry(gctx, pageURL, fetch, b.Logger, delays)
				if err != nil {
					return err
				}
				links[i], err = b.Parser.SessionLinks(html, year)
				return err
			}()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	built := make(wwdc.TopicMap)
	assigned := make(map[string]bool)
	var topicErrs []wwdc.TopicError
	for i, topic := range topics {
		if errs[i] != nil {
			topicErrs = append(topicErrs, wwdc.TopicError{Slug: topic.Slug, Err: errs[i]})
			if b.Logger != nil {
				b.Logger.Warn("topic page failed", "topic", topic.Slug, "error", errs[i])
			}
			continue
		}
		for _, link := range links[i] {
			if assigned[link.ID] {
				continue
			}
			assigned[link.ID] = true
			built[topic.Slug] = append(built[topic.Slug], link.ID)
		}
	}

	return built, topicErrs, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
