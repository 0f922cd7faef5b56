package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslomka/wwdc"
	"github.com/mslomka/wwdc/mock"
	wwdcslog "github.com/mslomka/wwdc/slog"
)

func TestLoggingContentWriter_WriteContent(t *testing.T) {
	t.Parallel()

	t.Run("logs the written path", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ContentWriter{
			WriteContentFn: func(ctx context.Context, session *wwdc.Session, doc *wwdc.Document, opt wwdc.WriteOptions) (*wwdc.WriteResult, error) {
				return &wwdc.WriteResult{RelPath: "2025/swift/245-x", Written: true}, nil
			},
		}

		w := wwdcslog.NewLoggingContentWriter(inner, logger)
		res, err := w.WriteContent(context.Background(), &wwdc.Session{ID: "245", Year: 2025}, &wwdc.Document{}, wwdc.WriteOptions{})

		require.NoError(t, err)
		assert.True(t, res.Written)
		output := buf.String()
		assert.Contains(t, output, "write content")
		assert.Contains(t, output, "session=245")
		assert.Contains(t, output, "path=2025/swift/245-x")
		assert.Contains(t, output, "written=true")
	})

	t.Run("logs failure with nil result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ContentWriter{
			WriteContentFn: func(ctx context.Context, session *wwdc.Session, doc *wwdc.Document, opt wwdc.WriteOptions) (*wwdc.WriteResult, error) {
				return nil, wwdc.Errorf(wwdc.EFS, "disk full")
			},
		}

		w := wwdcslog.NewLoggingContentWriter(inner, logger)
		_, err := w.WriteContent(context.Background(), &wwdc.Session{ID: "245", Year: 2025}, &wwdc.Document{}, wwdc.WriteOptions{})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "written=false")
	})
}
