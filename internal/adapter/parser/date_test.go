package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "Tue, 19 Sep 2017 14:03:00 +0000", want: time.Date(2017, 9, 19, 14, 3, 0, 0, time.UTC)},
		{raw: "  Tue, 19 Sep 2017 14:03:00 +0000\n", want: time.Date(2017, 9, 19, 14, 3, 0, 0, time.UTC)},
		{raw: "Tue, 19 Sep 2017 10:03:00 -0400", want: time.Date(2017, 9, 19, 14, 3, 0, 0, time.UTC)},
		{raw: "Tue, 5 Sep 2017 14:03:00 +0300", want: time.Date(2017, 9, 5, 11, 3, 0, 0, time.UTC)},
		{raw: "Tue, 05 Sep 2017 14:03:00 +0000", want: time.Date(2017, 9, 5, 14, 3, 0, 0, time.UTC)},
		{raw: "Mon, 02 Jan 2006 15:04:05 GMT", want: time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)},
		{raw: "Mon, 02 Jan 2006 15:04:05 UT", want: time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)},
		{raw: "Mon, 02 Jan 2006 10:04:05 EST", want: time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)},
		{raw: "Mon, 02 Jan 2006 08:04:05 PDT", want: time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %s, got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDate_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		got, err := ParseDate(raw)
		assert.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestParseDate_Malformed(t *testing.T) {
	tests := []string{
		"2017-09-19T14:03:00Z",
		"Tue, 19 Sep 2017",
		"Tue, 19 Sep 2017 14:03 +0000",
		"Tue, 19 Foo 2017 14:03:00 +0000",
		"Di, 19 Sep 2017 14:03:00 +0000",
		"Tue, 19 Sep 2017 14:03:00 XYZ",
		"19 Sep 2017 14:03:00 +0000",
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseDate(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDate))
			assert.Contains(t, err.Error(), raw)
			assert.Nil(t, got)
		})
	}
}
