package htmltomarkdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslomka/wwdc"
	"github.com/mslomka/wwdc/htmltomarkdown"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("preserves inline links", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		md, err := c.Convert(`Learn more in the <a href="https://developer.apple.com/documentation/swiftui">SwiftUI docs</a>.`)

		require.NoError(t, err)
		assert.Contains(t, md, "[SwiftUI docs](https://developer.apple.com/documentation/swiftui)")
	})

	t.Run("preserves emphasis", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		md, err := c.Convert(`This session <em>requires</em> Xcode 17.`)

		require.NoError(t, err)
		assert.Contains(t, md, "*requires*")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		c := htmltomarkdown.NewConverter()
		_, err := c.Convert("   ")

		require.Error(t, err)
		assert.Equal(t, wwdc.EINVALID, wwdc.ErrorCode(err))
	})
}
