package wwdc_test

import (
	"testing"

	"github.com/mslomka/wwdc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		display string
		want    int
		wantErr bool
	}{
		{name: "minutes and seconds", display: "3:17", want: 197},
		{name: "zero", display: "0:00", want: 0},
		{name: "padded minutes", display: "02:30", want: 150},
		{name: "hours", display: "1:02:45", want: 3765},
		{name: "surrounding whitespace", display: " 12:00 ", want: 720},
		{name: "bare seconds rejected", display: "75", wantErr: true},
		{name: "empty", display: "", wantErr: true},
		{name: "garbage", display: "a:bc", wantErr: true},
		{name: "negative part", display: "-1:00", wantErr: true},
		{name: "too many parts", display: "1:2:3:4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := wwdc.ParseTimestamp(tt.display)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, wwdc.EINVALID, wwdc.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00:00", wwdc.FormatTimestamp(0))
	assert.Equal(t, "01:15", wwdc.FormatTimestamp(75))
	assert.Equal(t, "02:30", wwdc.FormatTimestamp(150))
	assert.Equal(t, "1:02:45", wwdc.FormatTimestamp(3765))
	assert.Equal(t, "00:00", wwdc.FormatTimestamp(-5))
}
