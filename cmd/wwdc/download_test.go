package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslomka/wwdc"
	main "github.com/mslomka/wwdc/cmd/wwdc"
	"github.com/mslomka/wwdc/download"
	"github.com/mslomka/wwdc/mock"
)

func testDownloader(store wwdc.CacheStore, fetchErr error) *download.Downloader {
	return &download.Downloader{
		Fetcher: &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if fetchErr != nil {
					return "", fetchErr
				}
				return "<html>session</html>", nil
			},
		},
		Parser: &mock.SessionParser{
			ParseSessionFn: func(html string) (*wwdc.Document, []wwdc.ParseWarning, error) {
				return &wwdc.Document{Title: "Session"}, nil, nil
			},
		},
		Writer: &mock.ContentWriter{
			WriteContentFn: func(ctx context.Context, session *wwdc.Session, doc *wwdc.Document, opt wwdc.WriteOptions) (*wwdc.WriteResult, error) {
				return &wwdc.WriteResult{
					RelPath:     wwdc.SessionPath(session.Year, session.Topic, session.ID, session.Title),
					ContentHash: "hash",
					Written:     true,
				}, nil
			},
		},
		Store:       store,
		RetryDelays: []time.Duration{},
	}
}

func TestCmdDownload(t *testing.T) {
	t.Parallel()

	t.Run("prints summary on success", func(t *testing.T) {
		t.Parallel()

		cache := wwdc.NewCache()
		cache.MergeTopics(wwdc.TopicMap{"swift": {"245"}})

		deps, stdout, stderr := testDeps(cachedStore(cache))
		deps.Downloader = testDownloader(deps.Store, nil)

		cmd := &main.DownloadCmd{TextOnly: true}
		require.NoError(t, cmd.Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "Downloading 1 sessions")
		assert.Contains(t, out, "Downloaded 1, skipped 0, failed 0")
		assert.Empty(t, stderr.String())
	})

	t.Run("fails with non-zero result when sessions fail", func(t *testing.T) {
		t.Parallel()

		cache := wwdc.NewCache()
		cache.MergeTopics(wwdc.TopicMap{"swift": {"245"}})

		deps, stdout, stderr := testDeps(cachedStore(cache))
		deps.Downloader = testDownloader(deps.Store, wwdc.Errorf(wwdc.ENETWORK, "503"))

		cmd := &main.DownloadCmd{TextOnly: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 sessions failed")
		assert.Contains(t, stdout.String(), "failed 1")
		assert.Contains(t, stderr.String(), "245 failed")
	})

	t.Run("accepts all as the topic meaning every topic", func(t *testing.T) {
		t.Parallel()

		cache := wwdc.NewCache()
		cache.MergeTopics(wwdc.TopicMap{
			"swift":           {"245"},
			"developer-tools": {"247"},
		})

		deps, stdout, _ := testDeps(cachedStore(cache))
		deps.Downloader = testDownloader(deps.Store, nil)

		cmd := &main.DownloadCmd{Topic: "all", TextOnly: true}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Downloading 2 sessions")
	})

	t.Run("passes the topic filter through", func(t *testing.T) {
		t.Parallel()

		cache := wwdc.NewCache()
		cache.MergeTopics(wwdc.TopicMap{
			"swift":           {"245"},
			"developer-tools": {"247"},
		})

		deps, stdout, _ := testDeps(cachedStore(cache))
		deps.Downloader = testDownloader(deps.Store, nil)

		cmd := &main.DownloadCmd{Topic: "developer-tools", TextOnly: true}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), "Downloading 1 sessions")
	})
}
