package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "dotted", in: "2017.04.09", want: 1491696000},
		{name: "dashed", in: "2017-04-09", want: 1491696000},
		{name: "new year", in: "2022-01-01", want: 1640995200},
		{name: "padded input", in: "  2017.04.09  ", want: 1491696000},
		{name: "unpadded dotted", in: "2017.4.9", want: 1491696000},
		{name: "unpadded dashed", in: "2022-1-1", want: 1640995200},
		{name: "garbage", in: "20170409", wantErr: true},
		{name: "mixed separators", in: "2017.04-09", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseText(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTextRoundTrip(t *testing.T) {
	for _, s := range []string{"2001.09.01", "1970.01.01", "2022.12.31"} {
		ts, err := ParseText(s)
		require.NoError(t, err)
		assert.Equal(t, s, Display(ts))
	}
}

func TestParseAssumed(t *testing.T) {
	// Pin "today" so partial dates resolve deterministically.
	restore := now
	now = func() time.Time { return time.Date(2022, time.March, 15, 9, 30, 0, 0, time.UTC) }
	defer func() { now = restore }()

	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "day only", in: "9", want: Timestamp(2022, time.March, 9)},
		{name: "month and day", in: "2.28", want: Timestamp(2022, time.February, 28)},
		{name: "full four digit year", in: "2001.09.01", want: Timestamp(2001, time.September, 1)},
		{name: "two digit year", in: "21.11.28", want: Timestamp(2021, time.November, 28)},
		{name: "three digit year", in: "021.11.28", wantErr: true},
		{name: "non numeric component", in: "2001.xx.01", wantErr: true},
		{name: "too many components", in: "2001.09.01.05", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAssumed(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "2017.04.09", Display(1491696000))
	assert.Equal(t, "1970.01.01", Display(0))
}
