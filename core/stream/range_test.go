package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRangeAbsentHeader(t *testing.T) {
	r, err := ParseRange("", 1000)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParseRangeValid(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int64
		start  int64
		end    int64
	}{
		{"interior range", "bytes=500-599", 1000, 500, 599},
		{"from start", "bytes=0-99", 1000, 0, 99},
		{"single byte", "bytes=999-999", 1000, 999, 999},
		{"open ended", "bytes=500-", 1000, 500, 999},
		{"whole file", "bytes=0-999", 1000, 0, 999},
		{"with spaces", "bytes= 500 - 599", 1000, 500, 599},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.header, tt.size)
			require.NoError(t, err)
			require.NotNil(t, r)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, tt.end, r.End)
		})
	}
}

func TestParseRangeUnsatisfiable(t *testing.T) {
	tests := []struct {
		name   string
		header string
		size   int64
	}{
		{"start at size", "bytes=1000-1000", 1000},
		{"start past size", "bytes=1500-1600", 1000},
		{"end past size", "bytes=500-1000", 1000},
		{"inverted", "bytes=600-500", 1000},
		{"suffix form", "bytes=-500", 1000},
		{"multi range", "bytes=0-99,200-299", 1000},
		{"missing prefix", "500-599", 1000},
		{"wrong unit", "chunks=0-99", 1000},
		{"garbage start", "bytes=abc-99", 1000},
		{"garbage end", "bytes=0-xyz", 1000},
		{"no dash", "bytes=500", 1000},
		{"negative start", "bytes=-1-99", 1000},
		{"empty file any range", "bytes=0-0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.header, tt.size)
			assert.ErrorIs(t, err, ErrUnsatisfiable)
			assert.Nil(t, r)
		})
	}
}

func TestByteRangeLength(t *testing.T) {
	r := ByteRange{Start: 500, End: 599}
	assert.Equal(t, int64(100), r.Length())

	single := ByteRange{Start: 999, End: 999}
	assert.Equal(t, int64(1), single.Length())
}

func TestByteRangeContentRange(t *testing.T) {
	r := ByteRange{Start: 500, End: 599}
	assert.Equal(t, "bytes 500-599/1000", r.ContentRange(1000))
}
