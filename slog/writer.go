package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mslomka/wwdc"
)

// Ensure LoggingContentWriter implements wwdc.ContentWriter.
var _ wwdc.ContentWriter = (*LoggingContentWriter)(nil)

// LoggingContentWriter wraps a ContentWriter with debug logging.
type LoggingContentWriter struct {
	next   wwdc.ContentWriter
	logger *slog.Logger
}

// NewLoggingContentWriter creates a new LoggingContentWriter.
func NewLoggingContentWriter(next wwdc.ContentWriter, logger *slog.Logger) *LoggingContentWriter {
	return &LoggingContentWriter{next: next, logger: logger}
}

// WriteContent delegates to the wrapped writer and logs the operation.
func (w *LoggingContentWriter) WriteContent(ctx context.Context, session *wwdc.Session, doc *wwdc.Document, opt wwdc.WriteOptions) (res *wwdc.WriteResult, err error) {
	defer func(begin time.Time) {
		written := false
		path := ""
		if res != nil {
			written = res.Written
			path = res.RelPath
		}
		w.logger.Info("write content",
			"session", session.ID,
			"path", path,
			"written", written,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteContent(ctx, session, doc, opt)
}
