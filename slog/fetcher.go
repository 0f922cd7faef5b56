// Package slog provides logging decorators for the wwdc service
// interfaces, used in verbose mode.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mslomka/wwdc"
)

// Ensure LoggingFetcher implements wwdc.Fetcher.
var _ wwdc.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   wwdc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next wwdc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingVideoFetcher implements wwdc.VideoFetcher.
var _ wwdc.VideoFetcher = (*LoggingVideoFetcher)(nil)

// LoggingVideoFetcher wraps a VideoFetcher with debug logging.
type LoggingVideoFetcher struct {
	next   wwdc.VideoFetcher
	logger *slog.Logger
}

// NewLoggingVideoFetcher creates a new LoggingVideoFetcher.
func NewLoggingVideoFetcher(next wwdc.VideoFetcher, logger *slog.Logger) *LoggingVideoFetcher {
	return &LoggingVideoFetcher{next: next, logger: logger}
}

// FetchVideo delegates to the wrapped fetcher and logs the operation.
func (f *LoggingVideoFetcher) FetchVideo(ctx context.Context, url, dest string) (err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch video",
			"url", url,
			"dest", dest,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchVideo(ctx, url, dest)
}
